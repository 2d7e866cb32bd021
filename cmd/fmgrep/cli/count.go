package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count <index-file> <pattern>",
		Short: "Count occurrences of a pattern",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := loadIndex(args[0])
			if err != nil {
				return err
			}
			cur, err := idx.Search([]byte(args[1]))
			if err != nil {
				Fail(err.Error())
				return err
			}
			fmt.Println(cur.Count())
			return nil
		},
	}
	return cmd
}

package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newLocateCmd() *cobra.Command {
	var sorted bool

	cmd := &cobra.Command{
		Use:   "locate <index-file> <pattern>",
		Short: "Print every starting offset of a pattern",
		Long: `Locate prints one offset per line. Positions come back in the order of
their underlying suffix-array rows, which is deterministic but not
numerically sorted - pass --sort for a sorted view.`,
		Args: cobra.ExactArgs(2),
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
			positions, err := cur.Locate()
			if err != nil {
				Fail(err.Error())
				return err
			}
			if sorted {
				sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
			}
			for _, p := range positions {
				fmt.Println(p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sorted, "sort", false, "sort positions numerically before printing")
	return cmd
}

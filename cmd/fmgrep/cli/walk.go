package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWalkCmd() *cobra.Command {
	var backward bool

	cmd := &cobra.Command{
		Use:   "walk <index-file> <pattern> <count>",
		Short: "Walk the text from the first match of a pattern",
		Long: `Walk searches for pattern, then iterates count symbols from the start of
its match range - forward in text order by default, or backward (the
symbols just before the match) with --backward.`,
		Args: cobra.ExactArgs(3),
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
			if cur.Count() == 0 {
				Fail("pattern not found")
				return fmt.Errorf("fmgrep: pattern %q not found", args[1])
			}

			var n int
			if _, err := fmt.Sscanf(args[2], "%d", &n); err != nil {
				return fmt.Errorf("fmgrep: invalid count %q: %w", args[2], err)
			}

			var out []byte
			if backward {
				it, err := cur.IterBackward()
				if err != nil {
					return err
				}
				symbols := it.Take(n)
				for i := len(symbols) - 1; i >= 0; i-- {
					out = append(out, symbols[i])
				}
			} else {
				it, err := cur.IterForward()
				if err != nil {
					return err
				}
				out = it.Take(n)
			}
			os.Stdout.Write(out)
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().BoolVar(&backward, "backward", false, "walk backward from the match instead of forward")
	return cmd
}

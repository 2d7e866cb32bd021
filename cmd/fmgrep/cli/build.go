package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nekitakamenev/fmindex"
)

func newBuildCmd() *cobra.Command {
	var level uint
	var out string
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "build <text-file>",
		Short: "Build an FM-index over a file and write it to disk",
		Long: `Build reads a text file as a raw byte stream, builds an FM-index over it,
and serializes the index to --out. The serialized form round-trips through
the library's MarshalBinary/UnmarshalIndex methods, never touching the
filesystem itself - this command owns the I/O, the core stays pure.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("fmgrep: reading %s: %w", args[0], err)
			}

			conv := fmindex.NewIdentity[byte](256)

			var idx *fmindex.Index[byte]
			if countOnly {
				idx, err = fmindex.BuildCountOnly(text, conv)
			} else {
				idx, err = fmindex.Build(text, conv, level)
			}
			if err != nil {
				return fmt.Errorf("fmgrep: build: %w", err)
			}
			logger.Debug("index built", "n", idx.Len(), "size_bytes", idx.Size())

			data, err := idx.MarshalBinary()
			if err != nil {
				return fmt.Errorf("fmgrep: serialize: %w", err)
			}
			if out == "" {
				out = args[0] + ".fmidx"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("fmgrep: writing %s: %w", out, err)
			}

			Header("Index built")
			Summary(
				"Text", args[0],
				"Index", out,
				"Length", fmt.Sprintf("%d", idx.Len()),
				"Size", fmt.Sprintf("%d bytes", idx.Size()),
				"Locate", fmt.Sprintf("%v", idx.HasPositionSupport()),
			)
			Success("wrote " + out)
			return nil
		},
	}

	cmd.Flags().UintVar(&level, "level", 0, "sampled suffix array level (0 = every row, higher = less memory, slower locate)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output index path (default: <text-file>.fmidx)")
	cmd.Flags().BoolVar(&countOnly, "count-only", false, "skip the sampled suffix array entirely; disables locate")

	return cmd
}

// loadIndex deserializes a previously built index from path, using the same
// Identity[byte](256) converter every build/count/locate/walk subcommand
// shares.
func loadIndex(path string) (*fmindex.Index[byte], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fmgrep: reading %s: %w", path, err)
	}
	idx, err := fmindex.UnmarshalIndex(data, fmindex.NewIdentity[byte](256))
	if err != nil {
		return nil, fmt.Errorf("fmgrep: loading index %s: %w", path, err)
	}
	return idx, nil
}

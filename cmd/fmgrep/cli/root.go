// Package cli provides the fmgrep command-line interface.
package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// logger is the one leveled logger the command tree shares, written to
// stderr so stdout stays reserved for query results a caller might pipe.
var logger = log.New(os.Stderr)

// Execute runs the fmgrep CLI.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:     "fmgrep",
		Short:   "fmgrep - FM-index pattern search over a text file",
		Version: "1.0.0",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	})

	root.AddCommand(
		newBuildCmd(),
		newCountCmd(),
		newLocateCmd(),
		newWalkCmd(),
	)

	return root.ExecuteContext(ctx)
}

// Command fmgrep is a small demo CLI over the fmindex library: build an
// index from a file, then count, locate, or walk patterns against it.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekitakamenev/fmindex/cmd/fmgrep/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}

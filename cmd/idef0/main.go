// Command idef0 converts IDEF0 function models into draw.io documents and
// serves them over HTTP. See `idef0 --help`.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/internal/cli"
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// Exit codes. Scripts can tell a rejected diagram from a failed run.
const (
	exitError       = 1
	exitInvalid     = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().ExecuteContext(ctx)
	stop()

	if code := exitCode(err); code != 0 {
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(code)
	}
}

// newRoot wires the -v flag into the CLI logger ahead of the command's own
// pre-run hook.
func newRoot() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	attach := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if attach == nil {
			return nil
		}
		return attach(cmd, args)
	}
	return root
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.IsValidation(err):
		return exitInvalid
	default:
		return exitError
	}
}

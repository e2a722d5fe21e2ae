// Package cli implements the idef0 command-line interface.
//
// The commands read IDEF0 diagrams from JSON files, convert them into draw.io
// documents, render Graphviz previews, and run the HTTP API. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Generate an mxGraph XML document from a diagram file
//   - validate: Check a diagram file without producing output
//   - preview: Render a quick SVG, PNG, PDF or DOT preview
//   - inspect: Show the computed boxes and arrow anchors as a table
//   - serve: Run the HTTP API
//   - publish: Store a converted document under a variant name
//   - cache: Manage the local conversion cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// also attached to the command context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps read "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it once finished, e.g.
//
//	14:32:01.45 INFO converted file=order.json activities=3 arrows=6 elapsed=3ms
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) stage {
	return stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage name with keyvals and the elapsed time.
func (s stage) done(keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name, keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

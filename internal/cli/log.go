// Package cli implements the cardpress command-line interface.
//
// This package provides commands for rendering cards from a CSV sheet,
// tiling rendered cards onto printable pages, serving the pipeline over
// HTTP, and managing the render cache. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - cards: Render every card of a CSV sheet to PNG
//   - layout: Tile a directory of card images onto pages and a PDF
//   - build: Render cards and tile them in one run
//   - back: Render a card back with a QR code
//   - serve: Run the HTTP API
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/cardpress/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints wall-clock time with hundredths, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger creates the CLI logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one CLI stage. done logs the stage name with the caller's
// key/value pairs and a "duration" rounded to milliseconds, for example:
//
//	INFO wrote cards dir=Output count=42 duration=1.234s
type progress struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func newProgress(l *log.Logger, stage string) *progress {
	return &progress{logger: l, stage: stage, start: time.Now()}
}

func (p *progress) done(keyvals ...any) {
	keyvals = append(keyvals, "duration", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(p.stage, keyvals...)
}

// loggerKey carries the CLI logger in a command context.
type loggerKey struct{}

// withLogger attaches l to ctx. RootCommand does this for every command.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when a command runs without one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
		return l
	}
	return log.Default()
}

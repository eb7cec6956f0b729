// Package cli implements the cssgraph command-line interface.
//
// The commands grow random graphs and render them with the CSS edge and
// node styles, serve them to browsers, and probe the result interactively.
// The CLI is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Generate a graph and write SVG, HTML or JSON documents
//   - serve: Run the HTTP server with the websocket morph stream
//   - probe: Move a cursor over a rendered graph and hit-test it
//   - classify: Show how User-Agent strings are classified
//   - cache: Manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes the pipeline and server hooks into the log.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// rounded to the millisecond. Example output: "Rendered 3 documents (12ms)"
func (p *progress) done(msg string, kv ...any) {
	p.logger.Info(msg, append(kv, "took", time.Since(p.start).Round(time.Millisecond))...)
}

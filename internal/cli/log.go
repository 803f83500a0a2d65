// Package cli implements the schemaflow command-line interface.
//
// Commands read schema text from a file (or stdin with "-"), run it through
// the pipeline and write the result next to the input:
//   - parse: schema text to schema JSON
//   - layout: schema text to positioned layout JSON
//   - render: SVG, PNG, PDF, DOT or JSON diagrams
//   - route: re-route edges of an edited layout JSON
//   - watch: re-render whenever the schema file changes
//   - inspect: browse tables and refs in the terminal
//   - serve: the HTTP API
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log.
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

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg and keyvals with the elapsed time rounded to the
// millisecond, e.g. "rendered tables=3 took=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}

// Package cli implements the toolkit command-line interface.
//
// The commands turn a feature selection into a resolved package.json patch:
//   - init: resolve the selected features and write them into package.json
//   - resolve: print the resolved scripts and pinned dependencies
//   - features: list the feature catalogue
//   - check: verify every dependency in a package.json is pinned exactly
//   - cache: manage the registry response cache
//   - serve: expose resolution over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every registry query. The logger travels through context.Context.
//
// # Settings
//
// Registry, cache and concurrency settings are layered by viper: defaults,
// ~/.config/toolkit/config.toml, TOOLKIT_* environment variables, flags.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with the "HH:MM:SS.ms" timestamp format.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Resolved 42 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

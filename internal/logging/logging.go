// Package logging builds the charm loggers used across dpcheck.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// DefaultLevel is the level used when nothing configures one.
const DefaultLevel = "warn"

// New returns a logger writing to w at the named level. Colors follow w:
// charm log only styles output when w is a terminal.
func New(w io.Writer, level string, prefix string) (*log.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "log level %q", level),
			"use one of debug, info, warn, error, fatal",
		)
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: prefix,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns logger, or a discard logger when it is nil.
func OrDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

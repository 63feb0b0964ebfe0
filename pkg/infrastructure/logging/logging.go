package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a structured logger writing to w. Verbose loggers emit debug
// records; otherwise only warnings and errors are shown.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		Prefix:          "supplysim",
	})
}

// NewWithLevel creates a logger at a named level (debug, info, warn, error)
func NewWithLevel(w io.Writer, level string) (*log.Logger, error) {
	parsed, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{Level: parsed, Prefix: "supplysim"}), nil
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.New(io.Discard)
}

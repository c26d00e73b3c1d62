package shared

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger builds the root logger. Text output carries timestamps for
// humans; JSON output is meant for log collectors.
func SetupLogger(level string, jsonOutput bool, w io.Writer) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}
	if jsonOutput {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339Nano
	}
	return log.NewWithOptions(w, opts), nil
}

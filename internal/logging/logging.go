// Package logging builds the process logger: a log/slog front end backed by
// a charmbracelet/log handler.
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"slices"
	"time"

	clog "github.com/charmbracelet/log"
)

const (
	DefaultLevel  = "info"
	DefaultFormat = "text"
)

var levels = map[string]clog.Level{
	"debug":      clog.DebugLevel,
	DefaultLevel: clog.InfoLevel,
	"warn":       clog.WarnLevel,
	"error":      clog.ErrorLevel,
}

var formats = map[string]clog.Formatter{
	DefaultFormat: clog.TextFormatter,
	"logfmt":      clog.LogfmtFormatter,
	"json":        clog.JSONFormatter,
}

// ValidLevels returns valid strings for choosing a log level. Returns the
// default log level first.
func ValidLevels() []string {
	return defaultFirst(levels, DefaultLevel)
}

// ValidFormats returns valid output formats, default first.
func ValidFormats() []string {
	return defaultFirst(formats, DefaultFormat)
}

func defaultFirst[V any](m map[string]V, def string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if a == def {
			return -1
		}
		if b == def {
			return 1
		}
		// Sort remaining in alphabetical order.
		if a < b {
			return -1
		}
		return 1
	})
	return keys
}

// Options configures New.
type Options struct {
	// Level is one of ValidLevels.
	Level string
	// Format is one of ValidFormats.
	Format string
	// Output defaults to stderr.
	Output io.Writer
}

// Validate checks level and format.
func (o Options) Validate() error {
	if _, ok := levels[o.Level]; o.Level != "" && !ok {
		return fmt.Errorf("invalid log level %q (valid: %v)", o.Level, ValidLevels())
	}
	if _, ok := formats[o.Format]; o.Format != "" && !ok {
		return fmt.Errorf("invalid log format %q (valid: %v)", o.Format, ValidFormats())
	}
	return nil
}

// New constructs the logger described by opts.
func New(opts Options) (*slog.Logger, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Level == "" {
		opts.Level = DefaultLevel
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	handler := clog.NewWithOptions(opts.Output, clog.Options{
		Level:           levels[opts.Level],
		Formatter:       formats[opts.Format],
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StdLogger bridges logger to the standard library's *log.Logger, writing
// every line at error level. net/http's ErrorLog takes this type.
func StdLogger(logger *slog.Logger) *log.Logger {
	return slog.NewLogLogger(logger.Handler(), slog.LevelError)
}

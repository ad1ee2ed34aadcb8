package spreadsheet

import (
	"io"
	"log/slog"
)

// CircularPolicy decides what a formula that reaches itself displays
type CircularPolicy int

const (
	// CircularReport marks every formula cell on a cycle with #CIRCULAR!
	CircularReport CircularPolicy = iota

	// CircularIgnore evaluates cycle members once per batch with whatever
	// values their inputs hold. the traversal still terminates.
	CircularIgnore
)

func (p CircularPolicy) String() string {
	switch p {
	case CircularReport:
		return "report"
	case CircularIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

const (
	DefaultRowHeight   = 21.0
	DefaultColumnWidth = 100.0
)

// Options configures a Spreadsheet
type Options struct {
	Logger             *slog.Logger
	CircularReferences CircularPolicy
	DefaultRowHeight   float64
	DefaultColumnWidth float64
}

// Option mutates Options
type Option func(*Options)

// WithLogger sets the structured logger. the default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithCircularPolicy selects how circular references are surfaced
func WithCircularPolicy(policy CircularPolicy) Option {
	return func(o *Options) {
		o.CircularReferences = policy
	}
}

// WithDefaultRowHeight sets the height reported for rows without metadata
func WithDefaultRowHeight(height float64) Option {
	return func(o *Options) {
		o.DefaultRowHeight = height
	}
}

// WithDefaultColumnWidth sets the width reported for columns without
// metadata
func WithDefaultColumnWidth(width float64) Option {
	return func(o *Options) {
		o.DefaultColumnWidth = width
	}
}

func defaultOptions() Options {
	return Options{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		CircularReferences: CircularReport,
		DefaultRowHeight:   DefaultRowHeight,
		DefaultColumnWidth: DefaultColumnWidth,
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

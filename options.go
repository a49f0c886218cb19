package xlgrid

import (
	"io"
	"log/slog"
	"regexp"
)

// Options holds configuration for an Engine and the Sessions built on it.
type Options struct {
	keyMap              KeyMap
	logger              *slog.Logger
	clipboard           Clipboard
	evaluator           Evaluator
	horizontalSeparator string
	verticalPattern     *regexp.Regexp
	verticalSeparator   string
}

func defaultOptions() *Options {
	return &Options{
		keyMap:              DefaultKeyMap(),
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		horizontalSeparator: DefaultHorizontalSeparator,
		verticalPattern:     DefaultVerticalPattern,
		verticalSeparator:   DefaultVerticalSeparator,
	}
}

// Option configures an Engine.
type Option func(*Options)

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) Option {
	return func(o *Options) { o.keyMap = km }
}

// WithLogger sets the structured logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClipboard sets the clipboard used by Session copy, cut and paste
// (default: NewClipboard()).
func WithClipboard(c Clipboard) Option {
	return func(o *Options) { o.clipboard = c }
}

// WithEvaluator sets the formula evaluator used by Session.Value
// (default: NewEvaluator()).
func WithEvaluator(ev Evaluator) Option {
	return func(o *Options) { o.evaluator = ev }
}

// WithSeparators sets the clipboard text separators (default: TAB between
// columns, newline between rows). Pasted text is split on vertical; copied
// text is joined with verticalOut.
func WithSeparators(horizontal string, vertical *regexp.Regexp, verticalOut string) Option {
	return func(o *Options) {
		o.horizontalSeparator = horizontal
		o.verticalPattern = vertical
		o.verticalSeparator = verticalOut
	}
}

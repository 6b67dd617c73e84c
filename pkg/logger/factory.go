package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts "json" or "text". An empty string yields the empty
// Format, which New treats as "use the environment preset".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("invalid log format %q: must be %q or %q", s, FormatJSON, FormatText)
	}
}

// Option configures logger creation.
type Option func(*options)

type options struct {
	level      *slog.Level
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
	env        Environment
}

// preset holds the per-environment defaults applied before explicit options.
type preset struct {
	level  slog.Level
	format Format
}

var presets = map[Environment]preset{
	Development: {level: slog.LevelDebug, format: FormatText},
	Staging:     {level: slog.LevelInfo, format: FormatJSON},
	Production:  {level: slog.LevelInfo, format: FormatJSON},
}

// WithLevel overrides the preset level.
func WithLevel(l slog.Level) Option {
	return func(o *options) { o.level = &l }
}

// WithFormat overrides the preset format. An empty format keeps the preset.
// Panics on anything other than json or text.
func WithFormat(f Format) Option {
	return func(o *options) {
		switch f {
		case "":
		case FormatJSON, FormatText:
			o.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// WithContextExtractors registers extra extractors run on every record.
// Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		for _, ex := range extractors {
			if ex != nil {
				o.extractors = append(o.extractors, ex)
			}
		}
	}
}

// WithEnvironment selects the level and format preset for env and tags every
// record with env and app. An empty app omits the app attribute.
func WithEnvironment(env Environment, app string) Option {
	return func(o *options) {
		if _, ok := presets[env]; !ok {
			env = Development
		}
		o.env = env
		o.attrs = append(o.attrs, slog.String("env", string(env)))
		if app != "" {
			o.attrs = append(o.attrs, slog.String("app", app))
		}
	}
}

// New builds a *slog.Logger. Without WithEnvironment the production preset
// (JSON at info) applies. Records logged with a context carrying a run ID
// (see ContextWithRunID) get a run_id attribute.
func New(opts ...Option) *slog.Logger {
	o := &options{env: Production, output: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	p := presets[o.env]
	level := p.level
	if o.level != nil {
		level = *o.level
	}
	format := p.format
	if o.format != "" {
		format = o.format
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}

	extractors := append([]ContextExtractor{runIDFromContext}, o.extractors...)
	return slog.New(newContextHandler(handler, extractors))
}

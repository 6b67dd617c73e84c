package logger

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Machine records the state machine name under the key "machine".
// An empty name returns an empty Attr.
func Machine(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("machine", name)
}

// State records a state value under the key "state" using its string form.
func State(s any) slog.Attr {
	return slog.String("state", fmt.Sprint(s))
}

// Transition groups the source and target states under the key "transition".
func Transition(from, to any) slog.Attr {
	return Group("transition",
		slog.String("from", fmt.Sprint(from)),
		slog.String("to", fmt.Sprint(to)),
	)
}

// Phase records the handler phase (enter, process, exit) under the key "phase".
func Phase(p string) slog.Attr {
	return slog.String("phase", p)
}

// Tick records the loop tick number under the key "tick".
func Tick(n uint64) slog.Attr {
	return slog.Uint64("tick", n)
}

// RunID records the loop run identifier under the key "run_id".
// If id is nil, it returns an empty Attr.
func RunID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("run_id", id)
}

// Panic records a recovered panic value under the key "panic".
func Panic(v any) slog.Attr {
	return slog.Any("panic", v)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

package loop

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

// DefaultInterval is roughly one frame at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the time between ticks when the loop runs on its own.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithRecorder saves a snapshot of every machine implementing Snapshotter
// after each tick.
func WithRecorder(store snapshot.Store) Option {
	return func(l *Loop) {
		l.recorder = store
	}
}

// WithKeepPoisoned keeps poisoned machines registered instead of discarding
// them. They keep failing with a poisoned error on every tick.
func WithKeepPoisoned() Option {
	return func(l *Loop) {
		l.keepPoisoned = true
	}
}

// WithTickLimit stops the background run after n ticks. Zero means no limit.
func WithTickLimit(n uint64) Option {
	return func(l *Loop) {
		l.limit = n
	}
}

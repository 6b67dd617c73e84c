package loop

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tickstate/pkg/logger"
)

// Start runs ticks in the background at the configured interval until Stop is
// called, ctx is cancelled or the tick limit is reached.
func (l *Loop) Start(ctx context.Context) error {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	if l.cancel != nil {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.runID = uuid.New()

	go l.run(logger.ContextWithRunID(runCtx, l.runID.String()), l.done)

	l.logger.InfoContext(ctx, "loop started",
		logger.RunID(l.runID.String()),
		slog.Duration("interval", l.interval),
		slog.Int("machines", l.Len()),
	)
	return nil
}

// Stop cancels the background run and waits for the current tick to finish.
func (l *Loop) Stop() error {
	l.runMu.Lock()
	if l.cancel == nil {
		l.runMu.Unlock()
		return ErrNotRunning
	}
	cancel, done, runID := l.cancel, l.done, l.runID
	l.cancel = nil
	l.runMu.Unlock()

	cancel()
	<-done

	l.logger.Info("loop stopped",
		logger.RunID(runID.String()),
		slog.Uint64("ticks", l.TickCount()),
	)
	return nil
}

// Done returns a channel closed when the current background run exits. It
// returns nil when the loop was never started.
func (l *Loop) Done() <-chan struct{} {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	return l.done
}

// Run starts the loop and returns a function suitable for errgroup. The
// function returns when ctx is cancelled or the tick limit is reached.
func (l *Loop) Run(ctx context.Context) func() error {
	return func() error {
		if err := l.Start(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
		case <-l.Done():
		}

		return l.Stop()
	}
}

// run logs with ctx so records carry the run ID.
func (l *Loop) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	var ran uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := l.Tick(ctx)
			ran++

			if len(report.Failures) > 0 {
				l.logger.DebugContext(ctx, "tick finished with failures",
					logger.Tick(report.Tick),
					slog.Int("failures", len(report.Failures)),
				)
			}

			if l.limit > 0 && ran >= l.limit {
				l.logger.InfoContext(ctx, "tick limit reached",
					slog.Uint64("ticks", ran),
				)
				return
			}
		}
	}
}

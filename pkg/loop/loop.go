package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tickstate/pkg/logger"
	"github.com/dmitrymomot/tickstate/pkg/signal"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

// Processor is a machine the loop can drive.
type Processor interface {
	Process(ctx context.Context) error
	Poisoned() bool
}

// Snapshotter is implemented by processors that can describe their state.
type Snapshotter interface {
	Snapshot() snapshot.Snapshot
}

// MachineError is a failure reported by a single machine during a tick.
type MachineError struct {
	Tick    uint64
	Machine string
	Err     error
}

func (e MachineError) Error() string {
	return fmt.Sprintf("machine %q: %v", e.Machine, e.Err)
}

func (e MachineError) Unwrap() error {
	return e.Err
}

// Report summarizes one tick.
type Report struct {
	Tick      uint64
	Processed int
	Failures  []MachineError
	Discarded []string
	Duration  time.Duration
}

// Err joins every machine failure of the tick, or returns nil.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

type entry struct {
	name string
	proc Processor
}

// Loop drives a set of named machines, calling Process on each of them once
// per tick in registration order.
type Loop struct {
	mu      sync.RWMutex
	entries []entry

	interval     time.Duration
	limit        uint64
	logger       *slog.Logger
	recorder     snapshot.Store
	keepPoisoned bool

	tick     atomic.Uint64
	ticks    *signal.Signal[Report]
	failures *signal.Signal[MachineError]

	runMu  sync.Mutex
	runID  uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		interval: DefaultInterval,
		logger:   slog.New(slog.DiscardHandler),
		ticks:    signal.New[Report](),
		failures: signal.New[MachineError](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add registers a machine under a unique name.
func (l *Loop) Add(name string, p Processor) error {
	if name == "" {
		return ErrEmptyName
	}
	if p == nil {
		return ErrNilProcessor
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.indexOf(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	l.entries = append(l.entries, entry{name: name, proc: p})
	return nil
}

// Remove unregisters a machine. It reports whether the name was registered.
func (l *Loop) Remove(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(name)
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

// Get returns the machine registered under name.
func (l *Loop) Get(name string) (Processor, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return l.entries[i].proc, true
}

// Names returns the registered names in registration order.
func (l *Loop) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered machines.
func (l *Loop) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Loop) indexOf(name string) int {
	return slices.IndexFunc(l.entries, func(e entry) bool { return e.name == name })
}

// Ticks is emitted once at the end of every tick.
func (l *Loop) Ticks() *signal.Signal[Report] {
	return l.ticks
}

// Failures is emitted for every machine that returned an error in a tick.
func (l *Loop) Failures() *signal.Signal[MachineError] {
	return l.failures
}

// TickCount returns the number of ticks run so far.
func (l *Loop) TickCount() uint64 {
	return l.tick.Load()
}

// Tick processes every registered machine once. Machines added or removed
// while a tick is running take effect on the next tick. Poisoned machines are
// discarded at the end of the tick unless WithKeepPoisoned was given.
func (l *Loop) Tick(ctx context.Context) Report {
	start := time.Now()
	report := Report{Tick: l.tick.Add(1)}

	l.mu.RLock()
	entries := slices.Clone(l.entries)
	l.mu.RUnlock()

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}

		report.Processed++
		if err := l.process(ctx, e); err != nil {
			failure := MachineError{Tick: report.Tick, Machine: e.name, Err: err}
			report.Failures = append(report.Failures, failure)

			l.logger.WarnContext(ctx, "machine failed",
				logger.Machine(e.name),
				logger.Tick(report.Tick),
				logger.Error(err),
			)
			l.failures.Emit(failure)
		}

		l.record(ctx, e)

		if !l.keepPoisoned && e.proc.Poisoned() {
			report.Discarded = append(report.Discarded, e.name)
		}
	}

	for _, name := range report.Discarded {
		if l.Remove(name) {
			l.logger.InfoContext(ctx, "poisoned machine discarded",
				logger.Machine(name),
				logger.Tick(report.Tick),
			)
		}
	}

	report.Duration = time.Since(start)
	l.ticks.Emit(report)
	return report
}

func (l *Loop) process(ctx context.Context, e entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in processor: %v", r)
			l.logger.ErrorContext(ctx, "processor panicked",
				logger.Machine(e.name),
				logger.Panic(r),
			)
		}
	}()
	return e.proc.Process(ctx)
}

func (l *Loop) record(ctx context.Context, e entry) {
	if l.recorder == nil {
		return
	}
	s, ok := e.proc.(Snapshotter)
	if !ok {
		return
	}

	snap := s.Snapshot()
	snap.Name = e.name
	if err := l.recorder.Save(ctx, snap); err != nil {
		l.logger.ErrorContext(ctx, "failed to record snapshot",
			logger.Machine(e.name),
			logger.Error(err),
		)
	}
}

package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/tickstate/pkg/logger"
	"github.com/dmitrymomot/tickstate/pkg/signal"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

type slotKind int

const (
	slotEnter slotKind = iota
	slotProcess
	slotExit
)

func (k slotKind) String() string {
	switch k {
	case slotEnter:
		return string(PhaseEnter)
	case slotProcess:
		return string(PhaseProcess)
	default:
		return string(PhaseExit)
	}
}

type stateHandlers struct {
	enter   Handler
	process Handler
	exit    Handler
}

func (h *stateHandlers) get(kind slotKind) Handler {
	if h == nil {
		return nil
	}
	switch kind {
	case slotEnter:
		return h.enter
	case slotProcess:
		return h.process
	default:
		return h.exit
	}
}

func (h *stateHandlers) set(kind slotKind, fn Handler) {
	switch kind {
	case slotEnter:
		h.enter = fn
	case slotProcess:
		h.process = fn
	default:
		h.exit = fn
	}
}

// Machine is a tick-driven state machine over caller-defined states.
//
// State changes are requested with QueueState and applied by the next call to
// Process, which runs the exit handler of the old state and the enter handler
// of the new one before running the process handler of the current state.
// A failing enter or exit handler moves the machine into the error status
// permanently.
//
// Current, State, Pending, Poisoned, Err, Snapshot and QueueState are safe to
// call from any goroutine, including from inside handlers. Handlers run
// without any lock held.
type Machine[S comparable] struct {
	name   string
	logger *slog.Logger
	policy ProcessErrorPolicy

	mu          sync.RWMutex
	current     Status[S]
	next        Status[S]
	cause       error
	transitions uint64
	updatedAt   time.Time
	handlers    map[S]*stateHandlers

	processing atomic.Bool

	transitioned *signal.Signal[Transition[S]]
	failed       *signal.Signal[Failure[S]]
}

func newMachine[S comparable](initial S) *Machine[S] {
	return &Machine[S]{
		logger:       slog.New(slog.DiscardHandler),
		current:      Running(initial),
		next:         Running(initial),
		updatedAt:    time.Now(),
		handlers:     make(map[S]*stateHandlers),
		transitioned: signal.New[Transition[S]](),
		failed:       signal.New[Failure[S]](),
	}
}

func (m *Machine[S]) Name() string {
	return m.name
}

func (m *Machine[S]) Current() Status[S] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// State returns the current state, or the zero value of S once poisoned.
func (m *Machine[S]) State() S {
	s, _ := m.Current().State()
	return s
}

// Poisoned reports whether the machine is in the error status.
func (m *Machine[S]) Poisoned() bool {
	return m.Current().IsFailed()
}

// Err returns the error that poisoned the machine, or nil.
func (m *Machine[S]) Err() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cause
}

// Pending returns the queued state when it differs from the current one.
func (m *Machine[S]) Pending() (S, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.next == m.current || m.next.failed {
		var zero S
		return zero, false
	}
	return m.next.state, true
}

// QueueState records s as the state to switch to on the next Process call.
// A later call overwrites an earlier one. Queuing the current state cancels a
// pending transition. It is ignored once the machine is poisoned.
//
// It panics when s is an interface value holding a non-comparable dynamic
// value, such as a slice or a map.
func (m *Machine[S]) QueueState(s S) {
	if err := checkComparable(s); err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next.failed {
		return
	}
	m.next = Running(s)
}

func (m *Machine[S]) OnEnter(state S, h Handler) error {
	return m.register(state, slotEnter, h)
}

func (m *Machine[S]) OnProcess(state S, h Handler) error {
	return m.register(state, slotProcess, h)
}

// OnTick is an alias for OnProcess.
func (m *Machine[S]) OnTick(state S, h Handler) error {
	return m.register(state, slotProcess, h)
}

func (m *Machine[S]) OnExit(state S, h Handler) error {
	return m.register(state, slotExit, h)
}

func (m *Machine[S]) MustOnEnter(state S, h Handler) {
	must(m.OnEnter(state, h))
}

func (m *Machine[S]) MustOnProcess(state S, h Handler) {
	must(m.OnProcess(state, h))
}

func (m *Machine[S]) MustOnExit(state S, h Handler) {
	must(m.OnExit(state, h))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func (m *Machine[S]) register(state S, kind slotKind, h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: %s handler for state '%v'", ErrNilHandler, kind, state)
	}
	if err := checkComparable(state); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	hs, ok := m.handlers[state]
	if !ok {
		hs = &stateHandlers{}
		m.handlers[state] = hs
	}
	if hs.get(kind) != nil {
		return fmt.Errorf("%w: %s handler for state '%v'", ErrHandlerExists, kind, state)
	}
	hs.set(kind, h)
	return nil
}

func (m *Machine[S]) handler(state S, kind slotKind) Handler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handlers[state].get(kind)
}

// Transitions is emitted after every completed state change.
func (m *Machine[S]) Transitions() *signal.Signal[Transition[S]] {
	return m.transitioned
}

// Failures is emitted for every handler failure, poisoning or not.
func (m *Machine[S]) Failures() *signal.Signal[Failure[S]] {
	return m.failed
}

// Process advances the machine by one tick: it applies a queued transition,
// if any, and then runs the process handler of the current state.
//
// Once poisoned, Process returns an error wrapping ErrPoisoned and the
// original cause without running any handler. Calling Process from inside one
// of this machine's handlers returns ErrReentrantProcess.
func (m *Machine[S]) Process(ctx context.Context) error {
	if !m.processing.CompareAndSwap(false, true) {
		return ErrReentrantProcess
	}
	defer m.processing.Store(false)

	if err := m.transition(ctx); err != nil {
		return err
	}

	state := m.State()
	h := m.handler(state, slotProcess)
	if h == nil {
		return nil
	}

	err := call(ctx, h)
	if err == nil {
		return nil
	}

	perr := &ProcessError{State: state, Err: err}
	if m.policy == PoisonOnAnyError {
		perr.Poisoned = true
		m.poison(ctx, state, PhaseProcess, perr)
		return perr
	}

	m.logger.WarnContext(ctx, "process handler failed",
		logger.Machine(m.name),
		logger.State(state),
		logger.Error(err),
	)
	m.failed.Emit(Failure[S]{Machine: m.name, State: state, Phase: PhaseProcess, Err: perr})
	return perr
}

// ChangeState queues s and applies the transition immediately, without
// running any process handler. Errors follow the same rules as Process.
func (m *Machine[S]) ChangeState(ctx context.Context, s S) error {
	if !m.processing.CompareAndSwap(false, true) {
		return ErrReentrantProcess
	}
	defer m.processing.Store(false)

	if err := checkComparable(s); err != nil {
		return err
	}
	m.QueueState(s)
	return m.transition(ctx)
}

// checkComparable rejects interface-typed states whose dynamic value would
// make == panic.
func checkComparable[S comparable](s S) error {
	if v := reflect.ValueOf(any(s)); v.IsValid() && !v.Comparable() {
		return fmt.Errorf("%w: %T", ErrIncomparableState, any(s))
	}
	return nil
}

func (m *Machine[S]) transition(ctx context.Context) error {
	m.mu.RLock()
	cur, next, cause := m.current, m.next, m.cause
	m.mu.RUnlock()

	if cur.failed || next.failed {
		return fmt.Errorf("%w: %w", ErrPoisoned, cause)
	}
	if next == cur {
		return nil
	}

	from, to := cur.state, next.state

	if h := m.handler(from, slotExit); h != nil {
		if err := call(ctx, h); err != nil {
			terr := &TransitionError{From: from, To: to, Phase: PhaseExit, Err: err}
			m.poison(ctx, from, PhaseExit, terr)
			return terr
		}
	}

	if h := m.handler(to, slotEnter); h != nil {
		if err := call(ctx, h); err != nil {
			terr := &TransitionError{From: from, To: to, Phase: PhaseEnter, Err: err}
			m.poison(ctx, to, PhaseEnter, terr)
			return terr
		}
	}

	now := time.Now()
	m.mu.Lock()
	m.current = Running(to)
	m.transitions++
	m.updatedAt = now
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "state transition",
		logger.Machine(m.name),
		logger.Transition(from, to),
	)
	m.transitioned.Emit(Transition[S]{Machine: m.name, From: from, To: to, At: now})
	return nil
}

func (m *Machine[S]) poison(ctx context.Context, state S, phase Phase, err error) {
	m.mu.Lock()
	m.current = Failed[S]()
	m.next = Failed[S]()
	m.cause = err
	m.updatedAt = time.Now()
	m.mu.Unlock()

	m.logger.ErrorContext(ctx, "state machine poisoned",
		logger.Machine(m.name),
		logger.State(state),
		logger.Phase(string(phase)),
		logger.Error(err),
	)
	m.failed.Emit(Failure[S]{Machine: m.name, State: state, Phase: phase, Err: err, Poisoned: true})
}

// Snapshot returns a point-in-time view of the machine.
func (m *Machine[S]) Snapshot() snapshot.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := snapshot.Snapshot{
		Name:        m.name,
		Poisoned:    m.current.failed,
		Transitions: m.transitions,
		UpdatedAt:   m.updatedAt,
	}
	if !m.current.failed {
		snap.State = fmt.Sprint(m.current.state)
	}
	if !m.next.failed && m.next != m.current {
		snap.Pending = fmt.Sprint(m.next.state)
	}
	if m.cause != nil {
		snap.Error = m.cause.Error()
	}
	return snap
}

func call(ctx context.Context, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return h(ctx)
}

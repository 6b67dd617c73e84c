package statemachine

import (
	"fmt"
	"log/slog"
)

// Option configures a state machine during construction.
type Option[S comparable] func(*Machine[S]) error

// New creates a state machine in the given initial state. No handler runs
// until the first Process call.
func New[S comparable](initial S, opts ...Option[S]) (*Machine[S], error) {
	if err := checkComparable(initial); err != nil {
		return nil, err
	}
	m := newMachine(initial)

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// MustNew is like New but panics if any option fails to apply.
func MustNew[S comparable](initial S, opts ...Option[S]) *Machine[S] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// WithName sets the identifier used in logs, notifications and snapshots.
func WithName[S comparable](name string) Option[S] {
	return func(m *Machine[S]) error {
		m.name = name
		return nil
	}
}

// WithLogger sets the logger. Transitions are logged at debug level and
// poisoning at error level. The default logger discards everything.
func WithLogger[S comparable](logger *slog.Logger) Option[S] {
	return func(m *Machine[S]) error {
		if logger != nil {
			m.logger = logger
		}
		return nil
	}
}

// WithProcessErrorPolicy sets whether process handler failures poison the machine.
func WithProcessErrorPolicy[S comparable](policy ProcessErrorPolicy) Option[S] {
	return func(m *Machine[S]) error {
		m.policy = policy
		return nil
	}
}

func WithEnter[S comparable](state S, h Handler) Option[S] {
	return func(m *Machine[S]) error {
		return m.OnEnter(state, h)
	}
}

func WithProcess[S comparable](state S, h Handler) Option[S] {
	return func(m *Machine[S]) error {
		return m.OnProcess(state, h)
	}
}

func WithExit[S comparable](state S, h Handler) Option[S] {
	return func(m *Machine[S]) error {
		return m.OnExit(state, h)
	}
}

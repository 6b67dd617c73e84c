package statemachine

import (
	"errors"
	"log/slog"
)

// Builder provides a fluent API for building state machines. Errors are
// collected and returned by Build.
type Builder[S comparable] struct {
	initial  S
	opts     []Option[S]
	current  S
	selected bool
	errs     []error
}

// NewBuilder creates a new state machine builder.
func NewBuilder[S comparable](initial S) *Builder[S] {
	return &Builder[S]{initial: initial}
}

// Named sets the machine name.
func (b *Builder[S]) Named(name string) *Builder[S] {
	b.opts = append(b.opts, WithName[S](name))
	return b
}

func (b *Builder[S]) WithLogger(logger *slog.Logger) *Builder[S] {
	b.opts = append(b.opts, WithLogger[S](logger))
	return b
}

func (b *Builder[S]) WithProcessErrorPolicy(policy ProcessErrorPolicy) *Builder[S] {
	b.opts = append(b.opts, WithProcessErrorPolicy[S](policy))
	return b
}

// State selects the state that following OnEnter, OnProcess and OnExit
// calls attach handlers to.
func (b *Builder[S]) State(state S) *Builder[S] {
	b.current = state
	b.selected = true
	return b
}

func (b *Builder[S]) OnEnter(h Handler) *Builder[S] {
	return b.add(WithEnter[S], h)
}

func (b *Builder[S]) OnProcess(h Handler) *Builder[S] {
	return b.add(WithProcess[S], h)
}

func (b *Builder[S]) OnExit(h Handler) *Builder[S] {
	return b.add(WithExit[S], h)
}

func (b *Builder[S]) add(opt func(S, Handler) Option[S], h Handler) *Builder[S] {
	if !b.selected {
		b.errs = append(b.errs, ErrNoStateSelected)
		return b
	}
	b.opts = append(b.opts, opt(b.current, h))
	return b
}

// Build returns the constructed state machine.
func (b *Builder[S]) Build() (*Machine[S], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return New(b.initial, b.opts...)
}

// MustBuild is like Build but panics on error.
func (b *Builder[S]) MustBuild() *Machine[S] {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}

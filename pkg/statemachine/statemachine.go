package statemachine

import (
	"context"
	"fmt"
	"time"
)

// Handler is a per-state callback. Returning an error (or panicking) from an
// enter or exit handler poisons the machine.
type Handler func(ctx context.Context) error

// Phase names the handler slot that was running when a failure happened.
type Phase string

const (
	PhaseEnter   Phase = "enter"
	PhaseProcess Phase = "process"
	PhaseExit    Phase = "exit"
)

// ProcessErrorPolicy decides whether a failing process handler poisons the
// machine. Enter and exit failures always do.
type ProcessErrorPolicy int

const (
	// PoisonOnTransitionError poisons only on enter/exit failures; a process
	// failure is returned and the next Process call runs normally.
	PoisonOnTransitionError ProcessErrorPolicy = iota
	// PoisonOnAnyError also poisons when a process handler fails.
	PoisonOnAnyError
)

// Status is the state of a machine: either Running in one of the caller's
// states, or Failed. The failed variant is distinct from every value of S.
type Status[S comparable] struct {
	state  S
	failed bool
}

// Running returns the status of a healthy machine in state s.
func Running[S comparable](s S) Status[S] {
	return Status[S]{state: s}
}

// Failed returns the terminal error status.
func Failed[S comparable]() Status[S] {
	return Status[S]{failed: true}
}

// State returns the running state. ok is false for the failed status.
func (st Status[S]) State() (s S, ok bool) {
	return st.state, !st.failed
}

func (st Status[S]) IsFailed() bool {
	return st.failed
}

func (st Status[S]) String() string {
	if st.failed {
		return "ERROR"
	}
	return fmt.Sprint(st.state)
}

// Transition describes a completed state change.
type Transition[S comparable] struct {
	Machine string
	From    S
	To      S
	At      time.Time
}

// Failure describes a handler failure. Poisoned is true when the failure put
// the machine into the error state.
type Failure[S comparable] struct {
	Machine  string
	State    S
	Phase    Phase
	Err      error
	Poisoned bool
}

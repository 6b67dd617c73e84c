// Package statemachine provides a generic, tick-driven finite state machine
// with per-state enter, process and exit handlers.
//
// States are any comparable type chosen by the caller. Each state may have up
// to three handlers. A host queues a state change with QueueState and calls
// Process once per tick; Process applies the queued change (exit of the old
// state, then enter of the new one) and runs the process handler of the
// current state.
//
// Interface-typed states must hold comparable dynamic values. New, handler
// registration and ChangeState return ErrIncomparableState for a slice, map
// or func value; QueueState panics with it.
//
// # Usage
//
//	type phase int
//
//	const (
//	    idle phase = iota
//	    running
//	)
//
//	m := statemachine.NewBuilder(idle).
//	    Named("worker").
//	    State(idle).
//	    OnProcess(func(ctx context.Context) error { return nil }).
//	    State(running).
//	    OnEnter(func(ctx context.Context) error { return nil }).
//	    MustBuild()
//
//	m.QueueState(running)
//	if err := m.Process(ctx); err != nil {
//	    // handle error
//	}
//
// # Errors
//
// An enter or exit handler that returns an error (or panics) moves the
// machine into the error status. The failing call returns a
// *TransitionError; every later Process or ChangeState call returns an error
// wrapping ErrPoisoned and the original cause, without running any handler.
// There is no way back; hosts are expected to discard a poisoned machine.
//
// A failing process handler returns a *ProcessError. Whether it poisons the
// machine is controlled by WithProcessErrorPolicy; by default it does not.
//
// The error status is a variant of Status, not a reserved value of the
// state type, so it can never collide with a caller's state.
//
// # Notifications
//
// Transitions and Failures expose signals that fire after each completed
// transition and each handler failure. They are used by the loop, metrics
// and introspection packages.
//
// # Concurrency
//
// A machine is driven by one goroutine. Read accessors and QueueState are
// safe from any goroutine and from inside handlers. Handlers run without the
// internal lock held. Process is not re-entrant.
package statemachine

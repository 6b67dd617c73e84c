package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNilHandler        = errors.New("invalid handler: handler cannot be nil")
	ErrHandlerExists     = errors.New("handler already registered for this state and slot")
	ErrPoisoned          = errors.New("state machine is in the error state")
	ErrReentrantProcess  = errors.New("process called while the state machine is already processing")
	ErrNoStateSelected   = errors.New("builder: handler added before selecting a state")
	ErrIncomparableState = errors.New("state value is not comparable")
)

// TransitionError reports a failed exit or enter handler. The machine that
// returned it is poisoned.
type TransitionError struct {
	From  any
	To    any
	Phase Phase
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition from state '%v' to '%v' failed in %s handler: %v", e.From, e.To, e.Phase, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Is matches ErrPoisoned: every transition failure poisons the machine.
func (e *TransitionError) Is(target error) bool {
	return target == ErrPoisoned
}

// ProcessError reports a failed process handler. Poisoned is set when the
// failure moved the machine into the error state.
type ProcessError struct {
	State    any
	Err      error
	Poisoned bool
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process handler of state '%v' failed: %v", e.State, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

func (e *ProcessError) Is(target error) bool {
	return e.Poisoned && target == ErrPoisoned
}

// PanicError wraps a value recovered from a panicking handler.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}

func IsProcessError(err error) bool {
	var e *ProcessError
	return errors.As(err, &e)
}

func IsPanicError(err error) bool {
	var e *PanicError
	return errors.As(err, &e)
}

// IsPoisoned reports whether err was returned by a machine that is in the
// error state, either because the call poisoned it or because it already was.
func IsPoisoned(err error) bool {
	return errors.Is(err, ErrPoisoned)
}

package signal

import "errors"

var (
	// ErrNilCallback is the panic value used when a nil callback is connected.
	ErrNilCallback = errors.New("signal: callback cannot be nil")

	// ErrNilSignal is the panic value used when binding to a nil signal.
	ErrNilSignal = errors.New("signal: signal cannot be nil")
)

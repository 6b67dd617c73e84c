package loop

import "errors"

var (
	ErrEmptyName      = errors.New("loop: machine name cannot be empty")
	ErrNilProcessor   = errors.New("loop: processor cannot be nil")
	ErrDuplicateName  = errors.New("loop: machine name already registered")
	ErrAlreadyRunning = errors.New("loop: already running")
	ErrNotRunning     = errors.New("loop: not running")
)

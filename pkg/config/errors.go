package config

import "errors"

var (
	ErrParsingConfig     = errors.New("config: cannot parse environment into struct")
	ErrInvalidConfigType = errors.New("config: target must be a pointer to a struct")
	ErrNilPointer        = errors.New("config: nil target")
	ErrLoadingEnvFile    = errors.New("config: cannot load env file")
)

package scenario

import "errors"

var (
	ErrEmptyDocument   = errors.New("scenario: document is empty")
	ErrInvalidDocument = errors.New("scenario: invalid document")
	ErrUnknownState    = errors.New("scenario: unknown state")
	ErrUnknownKind     = errors.New("scenario: unknown action kind")
	ErrInvalidParams   = errors.New("scenario: invalid action params")
	ErrMissingField    = errors.New("scenario: missing required field")
)

package scoring

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemaMismatch reports model parameters that disagree with each other
	// or with the encoded features. It is not recoverable per request.
	ErrSchemaMismatch = errors.New("SCHEMA_MISMATCH")

	// ErrInvalidInput reports an application field outside its domain.
	ErrInvalidInput = errors.New("INVALID_INPUT")
)

// InputError names the offending application field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func schemaMismatch(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, fmt.Sprintf(format, args...))
}

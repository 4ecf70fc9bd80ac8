package receipt

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingPayload is returned when the receipt data object identifier
	// is not found anywhere in the envelope.
	ErrMissingPayload = errors.New("receipt data object identifier not found")

	ErrMissingField   = errors.New("required field missing")
	ErrInvalidUTF8    = errors.New("invalid UTF-8 text")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidInteger = errors.New("invalid integer")
	ErrNotSet         = errors.New("in-app purchase value is not a SET")
)

// FieldError is returned when a recognized attribute cannot be decoded as
// its expected type.
type FieldError struct {
	Field  string
	Number int
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("receipt: field %s (%d): %v", e.Field, e.Number, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

package asn1

import (
	"errors"
	"fmt"
)

// Bit accessor errors
var (
	ErrInvalidIndex = errors.New("invalid bit index")
	ErrRangeFlipped = errors.New("bit range is flipped")
	ErrRangeWidth   = errors.New("bit range must be between 1 and 8")
)

// Structural errors
var (
	ErrEmptyInput       = errors.New("no data to decode")
	ErrOutOfBounds      = errors.New("declared length exceeds remaining input")
	ErrTruncatedTag     = errors.New("truncated high-tag-number form")
	ErrTagTooLarge      = errors.New("tag number too large")
	ErrIndefiniteLength = errors.New("indefinite length encoding not supported")
	ErrLengthTooLarge   = errors.New("length octets too large (>4 octets)")
)

// Object identifier errors
var (
	ErrEmptyIdentifier = errors.New("empty object identifier")
	ErrTruncatedArc    = errors.New("truncated object identifier arc")
	ErrArcTooLarge     = errors.New("object identifier arc too large")
)

// BitIndexError reports misuse of the bit accessor.
type BitIndexError struct {
	From uint8
	To   uint8
	Err  error
}

func (e *BitIndexError) Error() string {
	switch e.Err {
	case ErrRangeFlipped:
		return fmt.Sprintf("from: %d can't be greater than to: %d", e.From, e.To)
	case ErrInvalidIndex:
		return fmt.Sprintf("invalid index: %d", e.To)
	}
	return e.Err.Error()
}

func (e *BitIndexError) Unwrap() error { return e.Err }

// DecodeError is returned when the TLV structure is malformed. Offset is
// the position in the input at which decoding failed.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asn1: structural error at offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ObjectIdentifierError is returned when an OBJECT IDENTIFIER payload
// cannot be decoded.
type ObjectIdentifierError struct {
	Offset int
	Err    error
}

func (e *ObjectIdentifierError) Error() string {
	return fmt.Sprintf("asn1: object identifier error at octet %d: %v", e.Offset, e.Err)
}

func (e *ObjectIdentifierError) Unwrap() error { return e.Err }

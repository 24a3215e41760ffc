package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported = errors.New("unsupported type")
	ErrOverflow    = errors.New("integer overflows int64")
	ErrTooDeep     = errors.New("nesting exceeds maximum depth")
	ErrNotPointer  = errors.New("expected non-nil pointer")
	ErrMismatch    = errors.New("value does not fit target")
)

// EncodingError wraps a failure to encode or decode a value.
type EncodingError struct {
	Op   string // "encode" or "decode"
	Type string // Go type involved, when known
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

package serialfield

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/serialfield/pkg/codec"
	"github.com/rawbytedev/serialfield/pkg/wire"
)

var (
	ErrNoOwner      = errors.New("private field of an array needs an owner")
	ErrInputType    = errors.New("encoded input must be a string or []byte")
	ErrInvalidToken = errors.New("encoder produced an invalid value")
)

// FormatError reports a record that does not follow the grammar.
type FormatError = wire.FormatError

// EncodingError reports a failure of the value encoder or decoder.
type EncodingError = codec.EncodingError

// FieldNotFoundError is returned by Get when the record has no entry under
// the requested key.
type FieldNotFoundError struct {
	Owner string
	Field string

	intKey bool
}

// Key returns the key that was looked up.
func (e *FieldNotFoundError) Key() wire.FieldKey {
	return wire.FieldKey{Owner: e.Owner, Name: e.Field, Int: e.intKey}
}

func (e *FieldNotFoundError) Error() string {
	k := e.Key()
	switch {
	case k.IsPublic():
		return fmt.Sprintf("field %q not found", e.Field)
	case k.IsProtected():
		return fmt.Sprintf("protected field %q not found", e.Field)
	}
	return fmt.Sprintf("private field %q of %s not found", e.Field, e.Owner)
}

// wrapEncoding returns err as an *EncodingError, keeping one that already is.
func wrapEncoding(op string, v any, err error) error {
	var ee *EncodingError
	if errors.As(err, &ee) {
		return err
	}
	typ := ""
	if v != nil {
		typ = fmt.Sprintf("%T", v)
	}
	return &EncodingError{Op: op, Type: typ, Err: err}
}

package wire

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError through errors.Is.
var ErrFormat = errors.New("malformed record")

// FormatError reports input that does not match the record grammar.
// Offset is the byte position in the scanned buffer where scanning stopped.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed record: %s at offset %d", e.Msg, e.Offset)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatErr(off int, format string, args ...any) error {
	return &FormatError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func unterminated(off int) error {
	return &FormatError{Offset: off, Msg: "unterminated construct"}
}

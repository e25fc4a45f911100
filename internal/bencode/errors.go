package bencode

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTruncated is returned when the input ends in the middle of a value.
	ErrTruncated = errors.New("bencode: truncated input")
	// ErrNilValue is returned when asked to encode a nil Value.
	ErrNilValue = errors.New("bencode: nil value")
)

// MalformedError reports invalid bencode syntax at a byte offset.
type MalformedError struct {
	Offset int64
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("bencode: malformed input at offset %d: %s", e.Offset, e.Reason)
}

func malformed(offset int64, format string, args ...any) error {
	return &MalformedError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

func truncated(offset int64) error {
	return errors.Wrapf(ErrTruncated, "at offset %d", offset)
}

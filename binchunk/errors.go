package binchunk

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every error Undump returns.
var ErrFormat = errors.New("malformed binary chunk")

var (
	ErrSignature       = errors.New("not a precompiled chunk")
	ErrVersionMismatch = errors.New("version mismatch")
	ErrFormatMismatch  = errors.New("format mismatch")
	ErrCorrupted       = errors.New("corrupted chunk")
	ErrSizeMismatch    = errors.New("size mismatch")
	ErrEndianness      = errors.New("endianness mismatch")
	ErrFloatFormat     = errors.New("float format mismatch")
	ErrUnexpectedEOF   = errors.New("unexpected end of chunk")
	ErrBadConstantTag  = errors.New("invalid constant tag")
)

// FormatError reports a malformed or incompatible chunk.
type FormatError struct {
	Offset int    // byte offset where the problem was detected
	Err    error  // one of the Err* sentinels
	Detail string // optional context
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("binchunk: %v at offset %d: %s", e.Err, e.Offset, e.Detail)
	}
	return fmt.Sprintf("binchunk: %v at offset %d", e.Err, e.Offset)
}

// Unwrap exposes both ErrFormat and the specific sentinel.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}

package wire

import "errors"

var (
	// ErrTruncated marks reads past the end of the input.
	ErrTruncated = errors.New("wire: truncated input")
	// ErrTrailingBytes marks unconsumed bytes after a complete structure.
	ErrTrailingBytes = errors.New("wire: trailing bytes")
)

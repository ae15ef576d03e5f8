package store

import "errors"

var (
	ErrNotFound   = errors.New("store: not found")
	ErrInvalidID  = errors.New("store: invalid record id")
	ErrIDMismatch = errors.New("store: record id mismatch")
	ErrImmutable  = errors.New("store: immutable record mismatch")
	// ErrUntrustedSealer marks a record sealed by a key outside the
	// store's allowlist.
	ErrUntrustedSealer = errors.New("store: untrusted sealer key")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Package lookup serves on-demand values by sequence number.
//
// This is the deployment's side channel, not a dependency of the
// verification pipeline: a provider commits to a Keccak-256 hash chain and
// later reveals one 32-byte value per sequence number. Anyone holding the
// commitment can check a reveal by hashing it forward, so the service needs
// no signatures and no store.
//
// Chain construction: value[N-1] = Keccak(seed), value[k] = Keccak(value[k+1]),
// commitment = Keccak(value[0])... i.e. revealing sequence k exposes nothing
// about sequences greater than k.
package lookup

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// ValueSize is the byte length of every revealed value.
const ValueSize = 32

// ErrExhausted marks a sequence number past the end of the chain.
var ErrExhausted = errors.New("lookup: sequence exceeds chain length")

// Chain is a provider-side hash chain. Values are precomputed at
// construction; Reveal is a lookup, not a hash walk.
type Chain struct {
	values [][ValueSize]byte
}

func hashValue(b []byte) [ValueSize]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	var out [ValueSize]byte
	h.Sum(out[:0])
	return out
}

// NewChain derives a chain of length values from a secret seed.
// Sequence 0 is revealed first; higher sequences sit deeper in the chain.
func NewChain(seed []byte, length uint64) (*Chain, error) {
	if length == 0 {
		return nil, errors.New("lookup: chain length must be positive")
	}
	if len(seed) == 0 {
		return nil, errors.New("lookup: seed is required")
	}

	values := make([][ValueSize]byte, length)
	values[length-1] = hashValue(seed)
	for i := int(length) - 2; i >= 0; i-- {
		values[i] = hashValue(values[i+1][:])
	}
	return &Chain{values: values}, nil
}

// Len returns the number of revealable sequences.
func (c *Chain) Len() uint64 { return uint64(len(c.values)) }

// Commitment returns the public commitment: the hash of the first value.
func (c *Chain) Commitment() [ValueSize]byte {
	return hashValue(c.values[0][:])
}

// Reveal returns the value for a sequence number.
func (c *Chain) Reveal(sequence uint64) ([ValueSize]byte, error) {
	if sequence >= uint64(len(c.values)) {
		return [ValueSize]byte{}, fmt.Errorf("lookup: sequence %d of %d: %w",
			sequence, len(c.values), ErrExhausted)
	}
	return c.values[sequence], nil
}

// VerifyReveal checks a revealed value against a commitment by hashing it
// forward sequence+1 times. Cost is O(sequence); callers rate-limiting
// untrusted input should bound the sequence numbers they accept.
func VerifyReveal(commitment [ValueSize]byte, sequence uint64, value [ValueSize]byte) bool {
	current := value
	for i := uint64(0); i <= sequence; i++ {
		current = hashValue(current[:])
	}
	return current == commitment
}

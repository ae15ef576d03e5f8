// Package merkle implements the domain-separated Keccak-256 hash accumulator
// that commits to a batch of feed messages.
//
// A commitment is a single 32-byte digest. Leaves and interior nodes are
// hashed under distinct domain prefixes so a leaf digest can never be
// reinterpreted as an interior node (second-preimage proof forgery).
// Interior nodes hash their children in canonical order: the
// lexicographically smaller digest first. Verification MUST use the same
// ordering rule as the producer that built the tree; orderedPair is the
// single place that rule lives.
package merkle

import (
	"bytes"

	"golang.org/x/crypto/sha3"
)

// DigestSize is the byte length of every accumulator digest.
const DigestSize = 32

// Digest is a Keccak-256 accumulator digest.
type Digest [DigestSize]byte

// Path is an inclusion proof: sibling digests ordered leaf-to-root.
type Path []Digest

// Domain-separation prefixes. These are part of the commitment format and
// must never change independently of the producer.
const (
	leafPrefix = 0x00
	nodePrefix = 0x01
)

func keccak(parts ...[]byte) Digest {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var out Digest
	h.Sum(out[:0])
	return out
}

// HashLeaf hashes raw leaf bytes under the leaf domain.
func HashLeaf(data []byte) Digest {
	return keccak([]byte{leafPrefix}, data)
}

// HashNode hashes two child digests under the interior-node domain,
// in canonical order.
func HashNode(a, b Digest) Digest {
	lo, hi := orderedPair(a, b)
	return keccak([]byte{nodePrefix}, lo[:], hi[:])
}

// orderedPair returns (a, b) arranged with the lexicographically smaller
// digest first. This is the canonical child ordering for interior nodes.
func orderedPair(a, b Digest) (Digest, Digest) {
	if bytes.Compare(a[:], b[:]) <= 0 {
		return a, b
	}
	return b, a
}

// CheckInclusion reports whether path proves that leaf is committed under
// root. It recomputes the root by folding the sibling digests over the leaf
// hash and never returns an error: any malformed or mismatched proof is
// simply false. An empty path is valid only when the leaf is the sole node
// (root == HashLeaf(leaf)).
func CheckInclusion(path Path, leaf []byte, root Digest) bool {
	current := HashLeaf(leaf)
	for _, sibling := range path {
		current = HashNode(current, sibling)
	}
	return current == root
}

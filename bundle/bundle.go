// Package bundle implements the wire envelope that carries one attested
// commitment together with the updates proven under it.
//
// Envelope layout (big-endian):
//
//	magic "PNAU" | major u8 | minor u8 | trailer (u8 len + bytes, opaque) |
//	proofType u8 | attestation (u16 len + bytes) | numUpdates u8 |
//	numUpdates × { message (u16 len + bytes) | path (u8 count × 32-byte digests) }
//
// Bundle contents arrive from an untrusted upstream, so Decode enforces
// caller-configured limits on update count and proof depth before any of the
// payload is materialized. A bundle is consumed atomically; partial decoding
// is never exposed.
package bundle

import (
	"errors"
	"fmt"

	"github.com/Omerhrr/pyth-crosschain/merkle"
	"github.com/Omerhrr/pyth-crosschain/wire"
)

// Magic prefixes every update bundle.
const Magic = "PNAU"

// Version of the envelope format produced by Encode and accepted by Decode.
const (
	MajorVersion uint8 = 1
	MinorVersion uint8 = 0
)

// Proof scheme discriminators.
const (
	// ProofWormholeMerkle is the attested merkle accumulator scheme: the
	// only one this consumer supports.
	ProofWormholeMerkle uint8 = 0
)

// ErrLimitExceeded marks a bundle that violates the caller's resource
// limits. This is the boundary's exhaustion guard, not a verification
// verdict: the bundle may well be valid, the caller just refused the work.
var ErrLimitExceeded = errors.New("bundle: limit exceeded")

// Update pairs one committed leaf with its inclusion proof.
type Update struct {
	Message []byte
	Path    merkle.Path
}

// Bundle is a decoded update bundle: the attested message bytes plus the
// ordered updates to verify against its committed root.
type Bundle struct {
	MinorVersion uint8
	Attestation  []byte
	Updates      []Update
}

// Limits bounds attacker-influenced work per decoded bundle.
// A zero field means unlimited.
type Limits struct {
	// MaxUpdates caps the number of updates in one bundle.
	MaxUpdates int
	// MaxProofDepth caps the number of sibling digests per inclusion proof.
	MaxProofDepth int
}

func (l Limits) checkUpdates(n int) error {
	if l.MaxUpdates > 0 && n > l.MaxUpdates {
		return fmt.Errorf("bundle: %d updates exceeds limit %d: %w", n, l.MaxUpdates, ErrLimitExceeded)
	}
	return nil
}

func (l Limits) checkDepth(n int) error {
	if l.MaxProofDepth > 0 && n > l.MaxProofDepth {
		return fmt.Errorf("bundle: proof depth %d exceeds limit %d: %w", n, l.MaxProofDepth, ErrLimitExceeded)
	}
	return nil
}

// Check validates an already-decoded update set against the limits, for
// callers that assembled updates outside Decode.
func (l Limits) Check(updates []Update) error {
	if err := l.checkUpdates(len(updates)); err != nil {
		return err
	}
	for i, u := range updates {
		if l.MaxProofDepth > 0 && len(u.Path) > l.MaxProofDepth {
			return fmt.Errorf("bundle: update %d: proof depth %d exceeds limit %d: %w",
				i, len(u.Path), l.MaxProofDepth, ErrLimitExceeded)
		}
	}
	return nil
}

// Decode parses a complete bundle envelope. Trailing bytes after the last
// update are a decode failure.
func Decode(data []byte, limits Limits) (*Bundle, error) {
	d := wire.NewDecoder(data)

	magic, err := d.Bytes(len(Magic), "bundle magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("bundle: bad magic %q", magic)
	}

	major, err := d.U8("major version")
	if err != nil {
		return nil, err
	}
	if major != MajorVersion {
		return nil, fmt.Errorf("bundle: unsupported major version %d", major)
	}
	minor, err := d.U8("minor version")
	if err != nil {
		return nil, err
	}

	// The trailer is reserved for forward-compatible producer metadata.
	// Its length byte bounds it; contents are skipped, never interpreted.
	trailerLen, err := d.U8("trailer length")
	if err != nil {
		return nil, err
	}
	if err := d.Skip(int(trailerLen), "trailer"); err != nil {
		return nil, err
	}

	proofType, err := d.U8("proof type")
	if err != nil {
		return nil, err
	}
	if proofType != ProofWormholeMerkle {
		return nil, fmt.Errorf("bundle: unsupported proof type %d", proofType)
	}

	b := &Bundle{MinorVersion: minor}

	attLen, err := d.U16("attestation length")
	if err != nil {
		return nil, err
	}
	if b.Attestation, err = d.Bytes(int(attLen), "attestation"); err != nil {
		return nil, err
	}

	numUpdates, err := d.U8("update count")
	if err != nil {
		return nil, err
	}
	if err := limits.checkUpdates(int(numUpdates)); err != nil {
		return nil, err
	}

	b.Updates = make([]Update, 0, numUpdates)
	for i := 0; i < int(numUpdates); i++ {
		var u Update
		msgLen, err := d.U16("message length")
		if err != nil {
			return nil, err
		}
		if u.Message, err = d.Bytes(int(msgLen), "message"); err != nil {
			return nil, err
		}
		pathLen, err := d.U8("path length")
		if err != nil {
			return nil, err
		}
		if err := limits.checkDepth(int(pathLen)); err != nil {
			return nil, err
		}
		u.Path = make(merkle.Path, 0, pathLen)
		for j := 0; j < int(pathLen); j++ {
			sib, err := d.Array32("path digest")
			if err != nil {
				return nil, err
			}
			u.Path = append(u.Path, merkle.Digest(sib))
		}
		b.Updates = append(b.Updates, u)
	}

	return b, d.Finish()
}

// Encode serializes the bundle back to its wire form.
func (b *Bundle) Encode() ([]byte, error) {
	if len(b.Updates) > 0xFF {
		return nil, fmt.Errorf("bundle: too many updates (%d)", len(b.Updates))
	}

	e := wire.NewEncoder()
	e.Bytes([]byte(Magic))
	e.U8(MajorVersion)
	e.U8(b.MinorVersion)
	e.U8(0) // empty trailer
	e.U8(ProofWormholeMerkle)
	if err := e.Bytes16(b.Attestation); err != nil {
		return nil, err
	}
	e.U8(uint8(len(b.Updates)))
	for i, u := range b.Updates {
		if err := e.Bytes16(u.Message); err != nil {
			return nil, err
		}
		if len(u.Path) > 0xFF {
			return nil, fmt.Errorf("bundle: update %d proof too deep (%d)", i, len(u.Path))
		}
		e.U8(uint8(len(u.Path)))
		for _, sib := range u.Path {
			e.Array32([32]byte(sib))
		}
	}
	return e.Out(), nil
}

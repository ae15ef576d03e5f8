package store

import (
	"bytes"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/Omerhrr/pyth-crosschain/seal"
	"github.com/Omerhrr/pyth-crosschain/vaa"
)

// AttestationStore is the trust boundary in front of a record backend.
//
// Ingest accepts only records whose seal verifies against one of the
// configured sealer keys and whose inner attested message parses
// structurally. Fetch re-verifies the seal on the bytes read back, so a
// tampered or substituted backend cannot hand unverified attestations to a
// consumer. The verification pipeline never talks to a backend directly.
type AttestationStore struct {
	Backend Store
	// Sealers is the allowlist of trusted sealer public keys, in
	// "<alg>:<base64>" form (seal.ParseKeyString). Empty means no sealer
	// is trusted and every Ingest fails.
	Sealers []string

	parsed [][]byte
}

// NewAttestationStore builds an AttestationStore, validating the sealer key
// strings up front.
func NewAttestationStore(backend Store, sealers []string) (*AttestationStore, error) {
	if backend == nil {
		return nil, fmt.Errorf("store: nil backend")
	}
	s := &AttestationStore{Backend: backend, Sealers: sealers}
	for _, ks := range sealers {
		_, key, err := seal.ParseKeyString(ks)
		if err != nil {
			return nil, err
		}
		s.parsed = append(s.parsed, key)
	}
	return s, nil
}

func (s *AttestationStore) trusted(key []byte) bool {
	for _, k := range s.parsed {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

// Ingest verifies and stores one sealed record, returning its content ID.
func (s *AttestationStore) Ingest(record []byte) (cid.Cid, error) {
	rec, err := seal.Decode(record)
	if err != nil {
		return cid.Undef, err
	}
	if err := rec.Verify(); err != nil {
		return cid.Undef, err
	}
	if !s.trusted(rec.SealerKey) {
		return cid.Undef, fmt.Errorf("store: sealer %s: %w", rec.KeyString(), ErrUntrustedSealer)
	}
	// The seal vouches for the quorum check, not for structure; reject
	// records whose inner message would fail every later consumer anyway.
	if _, err := vaa.Parse(rec.Attestation); err != nil {
		return cid.Undef, fmt.Errorf("store: sealed attestation does not parse: %w", err)
	}
	return s.Backend.Put(record)
}

// Fetch returns the attested message bytes of the record with the given ID,
// after re-verifying its seal and sealer.
func (s *AttestationStore) Fetch(id cid.Cid) ([]byte, error) {
	record, err := s.Backend.Get(id)
	if err != nil {
		return nil, err
	}
	got, err := RecordID(record)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, ErrIDMismatch
	}
	rec, err := seal.Decode(record)
	if err != nil {
		return nil, err
	}
	if err := rec.Verify(); err != nil {
		return nil, err
	}
	if !s.trusted(rec.SealerKey) {
		return nil, fmt.Errorf("store: sealer %s: %w", rec.KeyString(), ErrUntrustedSealer)
	}
	return rec.Attestation, nil
}

// Has reports whether a record with the given ID exists in the backend.
func (s *AttestationStore) Has(id cid.Cid) bool {
	return s.Backend.Has(id)
}

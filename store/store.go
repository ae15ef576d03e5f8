// Package store defines the trusted attestation record store.
//
// Records are sealed attested messages (see the seal package), stored
// immutably and keyed by the content hash of the sealed record bytes
// (CIDv1, raw multicodec + sha2-256 multihash). The verification pipeline
// reads attestations exclusively through AttestationStore, which enforces
// the seal on both ingest and fetch; the pipeline itself never writes here.
package store

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Store is the minimal content-addressed backend interface.
//
// Contract:
// - Put MUST be idempotent.
// - Stored records MUST be immutable.
// - IDs MUST be derived from the bytes written (RecordID).
// - Get MUST return ErrNotFound when the ID is absent.
type Store interface {
	Put(record []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// RecordID derives the content ID for record bytes: CIDv1 with the raw
// multicodec over a sha2-256 multihash.
func RecordID(record []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(record, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// MustRecordID is RecordID for contexts where the inputs are fixed.
// multihash.Sum with SHA2_256 and default length cannot fail on any input,
// so an error here is a programming bug.
func MustRecordID(record []byte) cid.Cid {
	id, err := RecordID(record)
	if err != nil {
		panic(err)
	}
	return id
}

// Package testkit runs the record-store conformance suite against any
// store.Store implementation.
package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/Omerhrr/pyth-crosschain/store"
)

// NewStore constructs a fresh, empty Store instance for a test.
// The returned Store MUST be isolated from other tests.
type NewStore func(t *testing.T) store.Store

func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := []byte("sealed attestation record bytes")

		id, err := s.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := store.RecordID(want)
		if err != nil {
			t.Fatalf("RecordID failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put ID mismatch: got %s want %s", id, wantID)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		gotID, err := store.RecordID(got)
		if err != nil {
			t.Fatalf("RecordID(got) failed: %v", err)
		}
		if gotID != id {
			t.Fatalf("Get returned bytes not matching requested ID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		s := newStore(t)
		b := []byte("same bytes")

		id1, err := s.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := s.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		b := []byte("missing")
		id, err := store.RecordID(b)
		if err != nil {
			t.Fatalf("RecordID failed: %v", err)
		}

		if s.Has(id) {
			t.Fatalf("Has returned true for missing ID")
		}
		_, err = s.Get(id)
		if !store.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		_, err = s.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !s.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefID", func(t *testing.T) {
		s := newStore(t)
		var undef cid.Cid
		if s.Has(undef) {
			t.Fatalf("Has should be false for undefined ID")
		}
		if _, err := s.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined ID")
		}
	})
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	records map[cid.Cid][]byte
}

var _ store.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{records: map[cid.Cid][]byte{}}
}

func (m *MemStore) Put(record []byte) (cid.Cid, error) {
	id, err := store.RecordID(record)
	if err != nil {
		return cid.Undef, err
	}
	if existing, ok := m.records[id]; ok {
		if !bytes.Equal(existing, record) {
			return cid.Undef, store.ErrImmutable
		}
		return id, nil
	}
	m.records[id] = append([]byte(nil), record...)
	return id, nil
}

func (m *MemStore) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, store.ErrInvalidID
	}
	b, ok := m.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemStore) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, ok := m.records[id]
	return ok
}

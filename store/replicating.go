package store

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

// NamedStore associates a backend with a stable name for per-backend
// reporting.
type NamedStore struct {
	Name  string
	Store Store
}

// ReplicatingStore writes every record to all configured backends.
//
// Reads fall back in order. Writes require every backend to return the same
// content ID; a divergent backend surfaces as ErrIDMismatch rather than
// being silently tolerated.
type ReplicatingStore struct {
	Backends []NamedStore
}

var _ Store = ReplicatingStore{}

// PutAll writes record to all backends and returns the canonical ID plus the
// per-backend ID map.
func (r ReplicatingStore) PutAll(record []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := RecordID(record)
	if err != nil {
		return cid.Undef, nil, err
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("store: ReplicatingStore has no backends")
	}

	out := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store == nil {
			return cid.Undef, nil, fmt.Errorf("store: nil backend %q", b.Name)
		}
		got, err := b.Store.Put(record)
		if err != nil {
			return cid.Undef, nil, fmt.Errorf("store: backend %q: %w", b.Name, err)
		}
		out[b.Name] = got
		if got != want {
			return cid.Undef, out, ErrIDMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingStore) Put(record []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(record)
	return id, err
}

func (r ReplicatingStore) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		rec, err := b.Store.Get(id)
		if err == nil {
			return rec, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (r ReplicatingStore) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.Store != nil && b.Store.Has(id) {
			return true
		}
	}
	return false
}

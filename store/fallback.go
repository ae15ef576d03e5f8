package store

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// FallbackStore provides deterministic, ordered fallback across multiple
// backends.
//
// Read order is the slice order in Backends; callers MUST supply a fixed
// order so retrieval strategy stays explicit and reproducible.
//
// Put writes only to the first backend.
type FallbackStore struct {
	Backends []Store
}

var _ Store = FallbackStore{}

func (f FallbackStore) Put(record []byte) (cid.Cid, error) {
	if len(f.Backends) == 0 {
		return cid.Undef, errors.New("store: FallbackStore has no backends")
	}
	return f.Backends[0].Put(record)
}

func (f FallbackStore) Get(id cid.Cid) ([]byte, error) {
	for _, s := range f.Backends {
		b, err := s.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (f FallbackStore) Has(id cid.Cid) bool {
	for _, s := range f.Backends {
		if s.Has(id) {
			return true
		}
	}
	return false
}

package localfs

import (
	"errors"
	"os"
	"testing"

	"github.com/Omerhrr/pyth-crosschain/store"
	"github.com/Omerhrr/pyth-crosschain/store/testkit"
)

func TestConformance(t *testing.T) {
	testkit.RunStoreConformance(t, func(t *testing.T) store.Store {
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return s
	})
}

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("New(\"\") should fail")
	}
}

func TestGet_DetectsOutOfBandCorruption(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	record := []byte("sealed record bytes")
	id, err := s.Put(record)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored file behind the store's back.
	path := s.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := s.Get(id); !errors.Is(err, store.ErrIDMismatch) {
		t.Fatalf("Get after corruption: got %v, want ErrIDMismatch", err)
	}
	// A Put of the original bytes must not quietly repair the slot.
	if _, err := s.Put(record); !errors.Is(err, store.ErrImmutable) {
		t.Fatalf("Put over corrupted slot: got %v, want ErrImmutable", err)
	}
}

func TestPut_StoresReadOnly(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := s.Put([]byte("record"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	info, err := os.Stat(s.pathFor(id))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm()&0o222 != 0 {
		t.Fatalf("stored file is writable: %v", info.Mode())
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	id, err := s1.Put([]byte("durable record"))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	s2, err := New(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	got, err := s2.Get(id)
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != "durable record" {
		t.Fatalf("bytes changed across reopen")
	}
}

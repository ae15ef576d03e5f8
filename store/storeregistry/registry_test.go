package storeregistry

import (
	"flag"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/Omerhrr/pyth-crosschain/store"
)

type nopStore struct{}

func (nopStore) Put(record []byte) (cid.Cid, error) { return store.RecordID(record) }
func (nopStore) Get(id cid.Cid) ([]byte, error)     { return nil, store.ErrNotFound }
func (nopStore) Has(id cid.Cid) bool                { return false }

func testBackend(name string, usage Usage, dir *string) Backend {
	return Backend{
		Name:  name,
		Usage: usage,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(dir, name+"-dir", "", "test flag")
		},
		Open: func() (store.Store, func() error, error) {
			return nopStore{}, nil, nil
		},
	}
}

func TestRegister_Validation(t *testing.T) {
	var dir string
	cases := []Backend{
		{},
		{Name: "x"},
		{Name: "x", RegisterFlags: func(*flag.FlagSet) {}},
		{Name: "x", RegisterFlags: func(*flag.FlagSet) {}, Open: func() (store.Store, func() error, error) { return nil, nil, nil }},
	}
	for i, b := range cases {
		if err := Register(b); err == nil {
			t.Fatalf("case %d: incomplete backend accepted", i)
		}
	}
	b := testBackend("registry-test-dup", UsageCLI, &dir)
	if err := Register(b); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(b); err == nil {
		t.Fatalf("duplicate registration accepted")
	}
}

func TestListAndOpen_RespectUsage(t *testing.T) {
	var dir string
	MustRegister(testBackend("registry-test-cli-only", UsageCLI, &dir))

	found := false
	for _, b := range List(UsageCLI) {
		if b.Name == "registry-test-cli-only" {
			found = true
		}
	}
	if !found {
		t.Fatalf("backend missing from CLI list")
	}
	for _, b := range List(UsageDaemon) {
		if b.Name == "registry-test-cli-only" {
			t.Fatalf("CLI-only backend listed for daemons")
		}
	}

	if _, _, err := Open("registry-test-cli-only", UsageDaemon); err == nil {
		t.Fatalf("Open allowed wrong usage")
	}
	s, closeFn, err := Open("registry-test-cli-only", UsageCLI)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if closeFn != nil {
		defer closeFn()
	}
	if s == nil {
		t.Fatalf("Open returned nil store")
	}

	if _, _, err := Open("registry-test-no-such", UsageCLI); err == nil {
		t.Fatalf("Open of unknown backend succeeded")
	}
}

func TestNames_Sorted(t *testing.T) {
	names := Names(UsageCLI | UsageDaemon)
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestOpenWithConfig_SetsFlagValues(t *testing.T) {
	var dir string
	MustRegister(testBackend("registry-test-config", UsageCLI, &dir))

	_, _, err := OpenWithConfig("registry-test-config", UsageCLI,
		map[string]string{"registry-test-config-dir": "/tmp/records"})
	if err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	if dir != "/tmp/records" {
		t.Fatalf("config value not applied: %q", dir)
	}

	_, _, err = OpenWithConfig("registry-test-config", UsageCLI,
		map[string]string{"no-such-key": "x"})
	if err == nil {
		t.Fatalf("unknown config key accepted")
	}
}

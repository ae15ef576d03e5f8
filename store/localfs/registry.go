package localfs

import (
	"flag"
	"fmt"

	"github.com/Omerhrr/pyth-crosschain/store"
	"github.com/Omerhrr/pyth-crosschain/store/storeregistry"
)

var flagLocalDir string

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "localfs",
		Description: "Local filesystem record store (directory)",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS record store directory (for --backend=localfs)")
		},
		Open: func() (store.Store, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			s, err := New(flagLocalDir)
			return s, nil, err
		},
	})
}

package grpcstore

import (
	"flag"
	"fmt"
	"time"

	"github.com/Omerhrr/pyth-crosschain/store"
	"github.com/Omerhrr/pyth-crosschain/store/storeregistry"
)

var (
	flagTarget    string
	flagTimeoutMS int
)

func init() {
	storeregistry.MustRegister(storeregistry.Backend{
		Name:        "grpc",
		Description: "Remote record store over gRPC",
		Usage:       storeregistry.UsageCLI | storeregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagTarget, "grpc-target", "", "RecordStore gRPC target (for --backend=grpc)")
			fs.IntVar(&flagTimeoutMS, "grpc-timeout-ms", 0, "Per-RPC timeout in milliseconds (0 = none)")
		},
		Open: func() (store.Store, func() error, error) {
			if flagTarget == "" {
				return nil, nil, fmt.Errorf("missing --grpc-target")
			}
			c, err := Dial(flagTarget, DialOptions{})
			if err != nil {
				return nil, nil, err
			}
			if flagTimeoutMS > 0 {
				c.Timeout = time.Duration(flagTimeoutMS) * time.Millisecond
			}
			return c, c.Close, nil
		},
	})
}

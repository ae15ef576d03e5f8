package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"google.golang.org/grpc"

	"github.com/Omerhrr/pyth-crosschain/store"
	"github.com/Omerhrr/pyth-crosschain/store/grpcstore"
	"github.com/Omerhrr/pyth-crosschain/store/storeregistry"

	_ "github.com/Omerhrr/pyth-crosschain/store/localfs"
)

type sealerList []string

func (s *sealerList) String() string { return strings.Join(*s, ",") }

func (s *sealerList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	fs := flag.NewFlagSet("pyth-attestd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7788", "listen address")
	backend := fs.String("backend", "localfs", "record store backend name")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")
	openIngest := fs.Bool("allow-unsealed", false, "Accept records without seal enforcement (replication between trusted daemons only)")

	var sealers sealerList
	fs.Var(&sealers, "sealer", "Trusted sealer key (<alg>:<base64>); repeatable")

	storeregistry.RegisterFlags(fs, storeregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range storeregistry.List(storeregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	backing, closeFn, err := storeregistry.Open(*backend, storeregistry.UsageDaemon)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	srv := &grpcstore.Server{Store: backing}
	if !*openIngest {
		if len(sealers) == 0 {
			fmt.Fprintln(os.Stderr, "at least one --sealer is required (or --allow-unsealed)")
			os.Exit(2)
		}
		attestations, err := store.NewAttestationStore(backing, sealers)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		srv.Attestations = attestations
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcstore.RegisterRecordStoreServer(s, srv)

	fmt.Fprintf(os.Stderr, "pyth-attestd listening on %s (backend=%s, sealers=%d)\n",
		lis.Addr().String(), *backend, len(sealers))
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

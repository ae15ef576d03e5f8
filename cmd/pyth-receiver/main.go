package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Omerhrr/pyth-crosschain/bundle"
	"github.com/Omerhrr/pyth-crosschain/pricefeed"
	"github.com/Omerhrr/pyth-crosschain/seal"
	"github.com/Omerhrr/pyth-crosschain/store"
	"github.com/Omerhrr/pyth-crosschain/vaa"
	"github.com/Omerhrr/pyth-crosschain/verifier"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "record-cid":
		return cmdRecordCID(args[1:], out, errOut)
	case "seal":
		return cmdSeal(args[1:], out, errOut)
	case "keygen":
		return cmdKeygen(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pyth-receiver: accumulator update verification CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pyth-receiver verify --emitter-chain <n> [--max-updates <n>] [--max-depth <n>] [--skip-unknown] <bundle-file>")
	fmt.Fprintln(w, "  pyth-receiver inspect <vaa-or-bundle-file>")
	fmt.Fprintln(w, "  pyth-receiver record-cid <sealed-record-file>")
	fmt.Fprintln(w, "  pyth-receiver seal --key-file <ed25519-seed-hex-file> <vaa-file>")
	fmt.Fprintln(w, "  pyth-receiver keygen")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - verify is all-or-nothing: one bad proof or leaf rejects the whole bundle")
	fmt.Fprintln(w, "  - seal is a producer-side utility; it marks a VAA as quorum-checked,")
	fmt.Fprintln(w, "    it does not perform the quorum check itself")
	fmt.Fprintln(w, "  - keygen prints an ed25519 seed (hex) and the matching sealer key string")
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)
	emitterChain := fs.Uint("emitter-chain", 0, "expected emitter chain id (required)")
	maxUpdates := fs.Int("max-updates", 0, "maximum updates per bundle (0 = unlimited)")
	maxDepth := fs.Int("max-depth", 0, "maximum proof depth (0 = unlimited)")
	skipUnknown := fs.Bool("skip-unknown", false, "skip proven leaves with unknown message types instead of failing")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pyth-receiver verify --emitter-chain <n> [flags] <bundle-file>")
		return 2
	}
	if *emitterChain == 0 || *emitterChain > 0xFFFF {
		fmt.Fprintln(errOut, "--emitter-chain must be in 1..65535")
		return 2
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	opts := verifier.Options{
		Limits: bundle.Limits{MaxUpdates: *maxUpdates, MaxProofDepth: *maxDepth},
	}
	if *skipUnknown {
		opts.UnknownMessages = verifier.SkipUnknown
	}

	outcome, err := verifier.VerifyBundleBytes(data, uint16(*emitterChain), opts)
	if err != nil {
		fmt.Fprintf(errOut, "verification failed: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "verified %d update(s)\n", outcome.Count)
	for i, u := range outcome.Updates {
		switch m := u.(type) {
		case *pricefeed.PriceUpdate:
			fmt.Fprintf(out, "%d\tprice\tfeed=%s price=%d conf=%d expo=%d publish_time=%d\n",
				i, hex.EncodeToString(m.FeedID[:]), m.Price, m.Conf, m.Exponent, m.PublishTime)
		case *pricefeed.TwapUpdate:
			fmt.Fprintf(out, "%d\ttwap\tfeed=%s cum_price=%s cum_conf=%s slot=%d\n",
				i, hex.EncodeToString(m.FeedID[:]), m.CumulativePrice, m.CumulativeConf, m.PublishSlot)
		}
	}
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pyth-receiver inspect <vaa-or-bundle-file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	attestation := data
	if b, err := bundle.Decode(data, bundle.Limits{}); err == nil {
		fmt.Fprintf(out, "bundle: version %d.%d, %d update(s)\n",
			bundle.MajorVersion, b.MinorVersion, len(b.Updates))
		attestation = b.Attestation
	}

	msg, err := vaa.Parse(attestation)
	if err != nil {
		fmt.Fprintf(errOut, "attestation does not parse: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "attestation: version=%d signer_set=%d signatures=%d\n",
		msg.Version, msg.SignerSetIndex, len(msg.Signatures))
	fmt.Fprintf(out, "  emitter_chain=%d emitter=%s\n", msg.EmitterChain, hex.EncodeToString(msg.EmitterAddress[:]))
	fmt.Fprintf(out, "  sequence=%d timestamp=%d nonce=%d consistency=%d\n",
		msg.Sequence, msg.Timestamp, msg.Nonce, msg.ConsistencyLevel)

	payload, err := vaa.ParseRootPayload(msg.Payload)
	if err != nil {
		fmt.Fprintf(out, "  payload: %v\n", err)
		return 0
	}
	fmt.Fprintf(out, "  committed root=%s slot=%d ring_size=%d\n",
		hex.EncodeToString(payload.Root[:]), payload.Slot, payload.RingSize)
	return 0
}

func cmdRecordCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("record-cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: pyth-receiver record-cid <sealed-record-file>")
		return 2
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	rec, err := seal.Decode(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := rec.Verify(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	id, err := store.RecordID(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "%s\tsealer=%s\n", id.String(), rec.KeyString())
	return 0
}

func cmdSeal(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("seal", flag.ContinueOnError)
	fs.SetOutput(errOut)
	keyFile := fs.String("key-file", "", "file containing a 64-hex-char ed25519 seed")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 || *keyFile == "" {
		fmt.Fprintln(errOut, "usage: pyth-receiver seal --key-file <file> <vaa-file>")
		return 2
	}

	seedHex, err := os.ReadFile(*keyFile)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(seedHex)))
	if err != nil || len(seed) != ed25519.SeedSize {
		fmt.Fprintln(errOut, "key file must contain a 64-hex-char ed25519 seed")
		return 1
	}
	priv := ed25519.NewKeyFromSeed(seed)

	attestation, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if _, err := vaa.Parse(attestation); err != nil {
		fmt.Fprintf(errOut, "refusing to seal: attestation does not parse: %v\n", err)
		return 1
	}

	record, err := seal.SealEd25519(attestation, priv)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if _, err := out.Write(record); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	return 0
}

func cmdKeygen(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "seed\t%s\n", hex.EncodeToString(priv.Seed()))
	fmt.Fprintf(out, "sealer\ted25519:%s\n", base64.StdEncoding.EncodeToString(pub))
	return 0
}

package verifier_test

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/Omerhrr/pyth-crosschain/bundle"
	"github.com/Omerhrr/pyth-crosschain/merkle/testkit"
	"github.com/Omerhrr/pyth-crosschain/pricefeed"
	"github.com/Omerhrr/pyth-crosschain/vaa"
	"github.com/Omerhrr/pyth-crosschain/verifier"
)

const emitterChain = 26

// fixture builds a committed tree over leaves and the attested message
// carrying its root.
type fixture struct {
	attestation []byte
	updates     []bundle.Update
}

func buildFixture(t *testing.T, leaves [][]byte) *fixture {
	t.Helper()

	tree, err := testkit.Build(leaves)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	payload := &vaa.RootPayload{Slot: 42, RingSize: 10000, Root: tree.Root()}
	msg := &vaa.Message{
		Version:        vaa.SupportedVersion,
		SignerSetIndex: 4,
		Timestamp:      1700000000,
		EmitterChain:   emitterChain,
		EmitterAddress: [32]byte{0xE1},
		Sequence:       7,
		Payload:        payload.Encode(),
	}
	attestation, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode attestation: %v", err)
	}

	updates := make([]bundle.Update, tree.Len())
	for i := range updates {
		updates[i] = bundle.Update{Message: tree.Leaf(i), Path: tree.Path(i)}
	}
	return &fixture{attestation: attestation, updates: updates}
}

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func encodeLeaf(t *testing.T, u pricefeed.Update) []byte {
	t.Helper()
	b, err := u.Encode()
	if err != nil {
		t.Fatalf("Encode leaf: %v", err)
	}
	return b
}

func priceLeaf(t *testing.T, feed byte, price int64) []byte {
	t.Helper()
	return encodeLeaf(t, &pricefeed.PriceUpdate{
		FeedID:      [32]byte{feed},
		Price:       price,
		Conf:        10,
		Exponent:    -8,
		PublishTime: 1700000100,
	})
}

func asKind(t *testing.T, err error, kind verifier.Kind, index int) {
	t.Helper()
	var verr *verifier.Error
	if !errors.As(err, &verr) {
		t.Fatalf("error %v is not a *verifier.Error", err)
	}
	if verr.Kind != kind {
		t.Fatalf("kind: got %s want %s", verr.Kind, kind)
	}
	if verr.Index != index {
		t.Fatalf("index: got %d want %d", verr.Index, index)
	}
}

func TestVerifyBundle_AllValid(t *testing.T) {
	leaves := [][]byte{
		priceLeaf(t, 0x01, 100),
		priceLeaf(t, 0x02, -200),
		encodeLeaf(t, &pricefeed.TwapUpdate{
			FeedID:          [32]byte{0x03},
			CumulativePrice: bigInt(300),
			CumulativeConf:  bigInt(5),
			PublishSlot:     9,
		}),
	}
	f := buildFixture(t, leaves)

	out, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
	if err != nil {
		t.Fatalf("VerifyBundle: %v", err)
	}
	if out.Count != 3 || len(out.Updates) != 3 {
		t.Fatalf("count: got %d want 3", out.Count)
	}
	// Order must follow input order.
	if out.Updates[0].Feed() != ([32]byte{0x01}) ||
		out.Updates[1].Feed() != ([32]byte{0x02}) ||
		out.Updates[2].Feed() != ([32]byte{0x03}) {
		t.Fatalf("updates out of order")
	}
	if _, ok := out.Updates[2].(*pricefeed.TwapUpdate); !ok {
		t.Fatalf("update 2: got %T want *pricefeed.TwapUpdate", out.Updates[2])
	}
}

func TestVerifyBundle_EmptyUpdates(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1)})
	out, err := verifier.VerifyBundle(f.attestation, emitterChain, nil, verifier.Options{})
	if err != nil {
		t.Fatalf("VerifyBundle: %v", err)
	}
	if out.Count != 0 || len(out.Updates) != 0 {
		t.Fatalf("expected empty outcome, got %+v", out)
	}
}

func TestVerifyBundle_MalformedAttestation(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1)})
	_, err := verifier.VerifyBundle(f.attestation[:5], emitterChain, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindMalformedAttestation, -1)
}

func TestVerifyBundle_WrongEmitterChain(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1)})
	_, err := verifier.VerifyBundle(f.attestation, emitterChain+1, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindWrongEmitterChain, -1)
	if !errors.Is(err, vaa.ErrWrongEmitterChain) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestVerifyBundle_UnsupportedPayloadVariant(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1)})
	msg, err := vaa.Parse(f.attestation)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	msg.Payload[len(vaa.PayloadMagic)] = 9 // unknown variant
	attestation, err := msg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = verifier.VerifyBundle(attestation, emitterChain, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindUnsupportedPayloadVariant, -1)
	if !errors.Is(err, vaa.ErrUnsupportedPayload) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestVerifyBundle_InvalidProofIsAtomic(t *testing.T) {
	leaves := [][]byte{
		priceLeaf(t, 0x01, 1),
		priceLeaf(t, 0x02, 2),
		priceLeaf(t, 0x03, 3),
	}
	f := buildFixture(t, leaves)
	// Corrupt only the middle update's proof; updates 0 and 2 stay valid
	// but must not be accepted.
	f.updates[1].Path[0][0] ^= 0x01

	_, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindInvalidProof, 1)
}

func TestVerifyBundle_TamperedLeaf(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1), priceLeaf(t, 0x02, 2)})
	f.updates[0].Message[40] ^= 0x01 // flip a price byte, proof now stale
	_, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindInvalidProof, 0)
}

func TestVerifyBundle_UnknownMessageType(t *testing.T) {
	unknown := append([]byte{0x7F}, []byte("future message body")...)
	leaves := [][]byte{priceLeaf(t, 0x01, 1), unknown, priceLeaf(t, 0x03, 3)}
	f := buildFixture(t, leaves)

	t.Run("RejectByDefault", func(t *testing.T) {
		_, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
		asKind(t, err, verifier.KindUnknownMessageType, 1)
		if !errors.Is(err, pricefeed.ErrUnknownType) {
			t.Fatalf("cause not preserved: %v", err)
		}
	})

	t.Run("SkipWhenOptedIn", func(t *testing.T) {
		out, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates,
			verifier.Options{UnknownMessages: verifier.SkipUnknown})
		if err != nil {
			t.Fatalf("VerifyBundle: %v", err)
		}
		if out.Count != 2 {
			t.Fatalf("count: got %d want 2", out.Count)
		}
		if out.Updates[0].Feed() != ([32]byte{0x01}) || out.Updates[1].Feed() != ([32]byte{0x03}) {
			t.Fatalf("skip changed ordering of known updates")
		}
	})

	t.Run("SkipStillRequiresValidProof", func(t *testing.T) {
		bad := buildFixture(t, leaves)
		bad.updates[1].Path[0][0] ^= 0x01
		_, err := verifier.VerifyBundle(bad.attestation, emitterChain, bad.updates,
			verifier.Options{UnknownMessages: verifier.SkipUnknown})
		asKind(t, err, verifier.KindInvalidProof, 1)
	})
}

func TestVerifyBundle_MalformedMessage(t *testing.T) {
	// A committed leaf that is a truncated price body: the proof holds (the
	// tree was built over these exact bytes) but decoding must fail.
	short := []byte{byte(pricefeed.TypePrice), 0x01, 0x02}
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1), short})
	_, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
	asKind(t, err, verifier.KindMalformedMessage, 1)
}

func TestVerifyBundle_LimitsPrecedeHashing(t *testing.T) {
	f := buildFixture(t, [][]byte{priceLeaf(t, 0x01, 1), priceLeaf(t, 0x02, 2)})
	_, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates,
		verifier.Options{Limits: bundle.Limits{MaxUpdates: 1}})
	if !errors.Is(err, bundle.ErrLimitExceeded) {
		t.Fatalf("got %v, want ErrLimitExceeded", err)
	}
}

func TestVerifyBundleBytes(t *testing.T) {
	leaves := [][]byte{priceLeaf(t, 0x01, 1), priceLeaf(t, 0x02, 2)}
	f := buildFixture(t, leaves)
	env := &bundle.Bundle{Attestation: f.attestation, Updates: f.updates}
	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	t.Run("Valid", func(t *testing.T) {
		out, err := verifier.VerifyBundleBytes(data, emitterChain, verifier.Options{})
		if err != nil {
			t.Fatalf("VerifyBundleBytes: %v", err)
		}
		if out.Count != 2 {
			t.Fatalf("count: got %d want 2", out.Count)
		}
	})

	t.Run("MalformedEnvelope", func(t *testing.T) {
		_, err := verifier.VerifyBundleBytes(data[:7], emitterChain, verifier.Options{})
		asKind(t, err, verifier.KindMalformedAttestation, -1)
	})

	t.Run("LimitKeepsIdentity", func(t *testing.T) {
		_, err := verifier.VerifyBundleBytes(data, emitterChain,
			verifier.Options{Limits: bundle.Limits{MaxUpdates: 1}})
		if !errors.Is(err, bundle.ErrLimitExceeded) {
			t.Fatalf("got %v, want ErrLimitExceeded", err)
		}
		var verr *verifier.Error
		if errors.As(err, &verr) {
			t.Fatalf("limit violation must not be wrapped in the taxonomy")
		}
	})
}

func TestVerifyBundle_Concurrent(t *testing.T) {
	leaves := [][]byte{priceLeaf(t, 0x01, 1), priceLeaf(t, 0x02, 2), priceLeaf(t, 0x03, 3)}
	f := buildFixture(t, leaves)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 50; n++ {
				out, err := verifier.VerifyBundle(f.attestation, emitterChain, f.updates, verifier.Options{})
				if err != nil || out.Count != 3 {
					t.Errorf("concurrent verify: out=%+v err=%v", out, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

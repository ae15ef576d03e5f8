// Package verifier implements the atomic bundle verification pipeline.
//
// One call takes the raw bytes of an attested message, the caller's expected
// emitter chain, and an ordered set of updates, and returns either every
// update decoded in order or exactly one terminal error. There is no partial
// acceptance: the first invalid proof or undecodable leaf discards the whole
// call.
//
// The pipeline is a pure function over its inputs. It holds no state, takes
// no locks, and is safe to call from any number of goroutines. It also
// performs no signature verification: the attestation bytes must come from a
// store that only ingests quorum-checked records (see the seal and store
// packages).
package verifier

import (
	"errors"
	"fmt"

	"github.com/Omerhrr/pyth-crosschain/bundle"
	"github.com/Omerhrr/pyth-crosschain/merkle"
	"github.com/Omerhrr/pyth-crosschain/pricefeed"
	"github.com/Omerhrr/pyth-crosschain/vaa"
)

// UnknownMessageMode selects how a proven leaf with an unrecognized message
// discriminator is handled.
type UnknownMessageMode int

const (
	// RejectUnknown fails the whole bundle on the first unknown message
	// type. This is the default: it preserves the all-or-nothing audit
	// property that a successful outcome decoded every committed leaf.
	RejectUnknown UnknownMessageMode = iota
	// SkipUnknown drops unknown-type leaves and continues. The leaf must
	// still carry a valid inclusion proof to be skipped; a bad proof is
	// fatal in every mode. Outcome.Count counts accepted messages only.
	SkipUnknown
)

// Options configures one verification call. The zero value is the strict
// default: reject unknown message types, no resource limits.
type Options struct {
	UnknownMessages UnknownMessageMode
	// Limits bounds the hashing work accepted from this bundle. Violations
	// fail with bundle.ErrLimitExceeded before any proof is checked.
	Limits bundle.Limits
}

// Outcome is the result of a fully successful verification: every update's
// decoded message, in input order.
type Outcome struct {
	Updates []pricefeed.Update
	Count   int
}

// VerifyBundle verifies an ordered set of updates against the commitment
// carried by an attested message.
//
// Steps, in order: parse the attestation, validate its emitter chain,
// extract the committed root, then for each update check its inclusion
// proof and decode its leaf. Any failure aborts the whole call with a
// *Error; see the Kind constants for the taxonomy. An empty update set
// verifies successfully against any well-formed attestation.
func VerifyBundle(attestation []byte, expectedEmitterChain uint16, updates []bundle.Update, opts Options) (*Outcome, error) {
	if err := opts.Limits.Check(updates); err != nil {
		return nil, err
	}

	msg, err := vaa.Parse(attestation)
	if err != nil {
		return nil, newError(KindMalformedAttestation, -1,
			fmt.Sprintf("verifier: malformed attestation: %v", err), err)
	}
	if err := msg.Validate(expectedEmitterChain); err != nil {
		return nil, newError(KindWrongEmitterChain, -1,
			fmt.Sprintf("verifier: %v", err), err)
	}

	payload, err := vaa.ParseRootPayload(msg.Payload)
	if err != nil {
		if errors.Is(err, vaa.ErrUnsupportedPayload) {
			return nil, newError(KindUnsupportedPayloadVariant, -1,
				fmt.Sprintf("verifier: %v", err), err)
		}
		return nil, newError(KindMalformedAttestation, -1,
			fmt.Sprintf("verifier: malformed commitment payload: %v", err), err)
	}
	root := payload.Root

	out := &Outcome{Updates: make([]pricefeed.Update, 0, len(updates))}
	for i, u := range updates {
		if !merkle.CheckInclusion(u.Path, u.Message, root) {
			return nil, newError(KindInvalidProof, i,
				fmt.Sprintf("verifier: update %d: inclusion proof does not match committed root", i), nil)
		}
		decoded, err := pricefeed.Decode(u.Message)
		if err != nil {
			if errors.Is(err, pricefeed.ErrUnknownType) {
				if opts.UnknownMessages == SkipUnknown {
					continue
				}
				return nil, newError(KindUnknownMessageType, i,
					fmt.Sprintf("verifier: update %d: %v", i, err), err)
			}
			return nil, newError(KindMalformedMessage, i,
				fmt.Sprintf("verifier: update %d: %v", i, err), err)
		}
		out.Updates = append(out.Updates, decoded)
	}
	out.Count = len(out.Updates)
	return out, nil
}

// VerifyBundleBytes decodes a complete bundle envelope and verifies it.
// Envelope decode failures surface as KindMalformedAttestation, except
// limit violations, which keep their bundle.ErrLimitExceeded identity.
func VerifyBundleBytes(data []byte, expectedEmitterChain uint16, opts Options) (*Outcome, error) {
	b, err := bundle.Decode(data, opts.Limits)
	if err != nil {
		if errors.Is(err, bundle.ErrLimitExceeded) {
			return nil, err
		}
		return nil, newError(KindMalformedAttestation, -1,
			fmt.Sprintf("verifier: malformed bundle: %v", err), err)
	}
	return VerifyBundle(b.Attestation, expectedEmitterChain, b.Updates, opts)
}

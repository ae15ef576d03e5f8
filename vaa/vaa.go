// Package vaa parses the cross-chain attested messages that carry
// accumulator commitments.
//
// Trust boundary: this package performs structural parsing and origin
// validation only. It does NOT verify the quorum of signer signatures over
// the message body; signatures are carried as opaque bytes. A message is
// only trustworthy if it came out of a store that ingests records after the
// quorum check (see the seal and store packages). Reimplementations that
// consume raw network bytes here without that upstream check get no
// authenticity guarantee at all.
package vaa

import (
	"errors"
	"fmt"

	"github.com/Omerhrr/pyth-crosschain/wire"
)

// SupportedVersion is the only attested-message version this parser accepts.
const SupportedVersion = 1

// SignatureSize is the wire size of one opaque signer signature
// (1 signer index byte + 65 signature bytes).
const SignatureSize = 66

// ErrWrongEmitterChain marks an attested message whose origin chain does not
// match the caller's expectation.
var ErrWrongEmitterChain = errors.New("vaa: wrong emitter chain")

// Message is a parsed attested cross-chain message.
type Message struct {
	Version        uint8
	SignerSetIndex uint32
	// Signatures are opaque and unverified here; see the package trust
	// boundary note.
	Signatures [][]byte

	Timestamp        uint32
	Nonce            uint32
	EmitterChain     uint16
	EmitterAddress   [32]byte
	Sequence         uint64
	ConsistencyLevel uint8
	Payload          []byte
}

// Parse decodes an attested message and enforces its structural rules.
// It fails on any truncation, on an unsupported version, and on nothing
// else: payload semantics are the caller's concern.
func Parse(data []byte) (*Message, error) {
	d := wire.NewDecoder(data)

	version, err := d.U8("version")
	if err != nil {
		return nil, err
	}
	if version != SupportedVersion {
		return nil, fmt.Errorf("vaa: unsupported version %d", version)
	}

	m := &Message{Version: version}
	if m.SignerSetIndex, err = d.U32("signer set index"); err != nil {
		return nil, err
	}

	numSigs, err := d.U8("signature count")
	if err != nil {
		return nil, err
	}
	m.Signatures = make([][]byte, 0, numSigs)
	for i := 0; i < int(numSigs); i++ {
		sig, err := d.Bytes(SignatureSize, "signature")
		if err != nil {
			return nil, err
		}
		m.Signatures = append(m.Signatures, sig)
	}

	if m.Timestamp, err = d.U32("timestamp"); err != nil {
		return nil, err
	}
	if m.Nonce, err = d.U32("nonce"); err != nil {
		return nil, err
	}
	if m.EmitterChain, err = d.U16("emitter chain"); err != nil {
		return nil, err
	}
	if m.EmitterAddress, err = d.Array32("emitter address"); err != nil {
		return nil, err
	}
	if m.Sequence, err = d.U64("sequence"); err != nil {
		return nil, err
	}
	if m.ConsistencyLevel, err = d.U8("consistency level"); err != nil {
		return nil, err
	}
	m.Payload = d.Rest()
	return m, nil
}

// Validate checks the message origin against the expected emitter chain.
// It runs before any hashing in the verification pipeline (fail fast).
func (m *Message) Validate(expectedEmitterChain uint16) error {
	if m.EmitterChain != expectedEmitterChain {
		return fmt.Errorf("vaa: emitter chain %d, expected %d: %w",
			m.EmitterChain, expectedEmitterChain, ErrWrongEmitterChain)
	}
	return nil
}

// Encode serializes the message back to its wire form.
func (m *Message) Encode() ([]byte, error) {
	if len(m.Signatures) > 0xFF {
		return nil, fmt.Errorf("vaa: too many signatures (%d)", len(m.Signatures))
	}
	e := wire.NewEncoder()
	e.U8(m.Version)
	e.U32(m.SignerSetIndex)
	e.U8(uint8(len(m.Signatures)))
	for i, sig := range m.Signatures {
		if len(sig) != SignatureSize {
			return nil, fmt.Errorf("vaa: signature %d has length %d, want %d", i, len(sig), SignatureSize)
		}
		e.Bytes(sig)
	}
	e.U32(m.Timestamp)
	e.U32(m.Nonce)
	e.U16(m.EmitterChain)
	e.Array32(m.EmitterAddress)
	e.U64(m.Sequence)
	e.U8(m.ConsistencyLevel)
	e.Bytes(m.Payload)
	return e.Out(), nil
}

package vaa

import (
	"errors"
	"fmt"

	"github.com/Omerhrr/pyth-crosschain/merkle"
	"github.com/Omerhrr/pyth-crosschain/wire"
)

// PayloadMagic prefixes every commitment payload carried by an attested
// message.
const PayloadMagic = "AUWV"

// Payload variant discriminators.
const (
	// PayloadTypeRoot is the accumulator-root variant: the only one this
	// consumer supports.
	PayloadTypeRoot uint8 = 0
)

// ErrUnsupportedPayload marks a structurally valid payload whose variant is
// not the supported accumulator-root variant. Unknown variants are rejected
// loudly, never skipped: guessing forward compatibility here would accept a
// commitment this code cannot interpret.
var ErrUnsupportedPayload = errors.New("vaa: unsupported payload variant")

// RootPayload is the committed accumulator root published through the
// attestation channel, together with the producer slot and ring position it
// was built at.
type RootPayload struct {
	Slot     uint64
	RingSize uint32
	Root     merkle.Digest
}

// ParseRootPayload decodes the commitment payload of an attested message.
func ParseRootPayload(payload []byte) (*RootPayload, error) {
	d := wire.NewDecoder(payload)

	magic, err := d.Bytes(len(PayloadMagic), "payload magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != PayloadMagic {
		return nil, fmt.Errorf("vaa: bad payload magic %q", magic)
	}

	variant, err := d.U8("payload type")
	if err != nil {
		return nil, err
	}
	if variant != PayloadTypeRoot {
		return nil, fmt.Errorf("vaa: payload type %d: %w", variant, ErrUnsupportedPayload)
	}

	p := &RootPayload{}
	if p.Slot, err = d.U64("slot"); err != nil {
		return nil, err
	}
	if p.RingSize, err = d.U32("ring size"); err != nil {
		return nil, err
	}
	root, err := d.Array32("root")
	if err != nil {
		return nil, err
	}
	p.Root = merkle.Digest(root)
	return p, d.Finish()
}

// Encode serializes the payload back to its wire form.
func (p *RootPayload) Encode() []byte {
	e := wire.NewEncoder()
	e.Bytes([]byte(PayloadMagic))
	e.U8(PayloadTypeRoot)
	e.U64(p.Slot)
	e.U32(p.RingSize)
	e.Array32([32]byte(p.Root))
	return e.Out()
}

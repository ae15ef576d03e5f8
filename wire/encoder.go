package wire

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

var (
	i128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Max     = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	i128Min     = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	u128Max     = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Encoder builds the same big-endian layouts Decoder reads.
//
// It exists for producers and round-trip tests; decode paths never depend on it.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder { return &Encoder{} }

func (e *Encoder) U8(v uint8) { e.buf = append(e.buf, v) }
func (e *Encoder) U16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}
func (e *Encoder) U32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}
func (e *Encoder) U64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}
func (e *Encoder) I32(v int32) { e.U32(uint32(v)) }
func (e *Encoder) I64(v int64) { e.U64(uint64(v)) }

// U128 appends a 16-byte big-endian unsigned integer.
func (e *Encoder) U128(v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(u128Max) > 0 {
		return fmt.Errorf("wire: value out of u128 range")
	}
	e.buf = append(e.buf, pad16(v)...)
	return nil
}

// I128 appends a 16-byte big-endian two's-complement signed integer.
func (e *Encoder) I128(v *big.Int) error {
	if v == nil || v.Cmp(i128Min) < 0 || v.Cmp(i128Max) > 0 {
		return fmt.Errorf("wire: value out of i128 range")
	}
	u := v
	if v.Sign() < 0 {
		u = new(big.Int).Add(v, i128Modulus)
	}
	e.buf = append(e.buf, pad16(u)...)
	return nil
}

func (e *Encoder) Bytes(b []byte)     { e.buf = append(e.buf, b...) }
func (e *Encoder) Array32(b [32]byte) { e.buf = append(e.buf, b[:]...) }

// Bytes16 appends a u16 length prefix followed by b.
func (e *Encoder) Bytes16(b []byte) error {
	if len(b) > 0xFFFF {
		return fmt.Errorf("wire: byte string too long for u16 prefix (%d)", len(b))
	}
	e.U16(uint16(len(b)))
	e.Bytes(b)
	return nil
}

// Out returns the encoded bytes accumulated so far.
func (e *Encoder) Out() []byte { return e.buf }

func pad16(v *big.Int) []byte {
	b := v.Bytes()
	out := make([]byte, 16)
	copy(out[16-len(b):], b)
	return out
}

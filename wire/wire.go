// Package wire implements the strict big-endian binary codec shared by the
// cross-chain attestation formats in this repository.
//
// Decoding is canonical-or-fail: multi-byte integers are big-endian, every
// read is bounds-checked, and callers that decode a complete structure must
// call Finish to reject unconsumed trailing bytes. There is no lenient mode.
package wire

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Decoder is a read cursor over an immutable byte slice.
//
// Methods never read past the end of the input; the first failed read
// poisons nothing (the cursor simply does not advance), but callers are
// expected to stop at the first error.
type Decoder struct {
	buf []byte
	off int
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining reports how many bytes have not yet been consumed.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

func (d *Decoder) need(n int, what string) ([]byte, error) {
	if d.Remaining() < n {
		return nil, fmt.Errorf("wire: %s: need %d bytes, have %d: %w", what, n, d.Remaining(), ErrTruncated)
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) U8(what string) (uint8, error) {
	b, err := d.need(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) U16(what string) (uint16, error) {
	b, err := d.need(2, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (d *Decoder) U32(what string) (uint32, error) {
	b, err := d.need(4, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (d *Decoder) U64(what string) (uint64, error) {
	b, err := d.need(8, what)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (d *Decoder) I32(what string) (int32, error) {
	v, err := d.U32(what)
	return int32(v), err
}

func (d *Decoder) I64(what string) (int64, error) {
	v, err := d.U64(what)
	return int64(v), err
}

// U128 reads a 16-byte big-endian unsigned integer.
func (d *Decoder) U128(what string) (*big.Int, error) {
	b, err := d.need(16, what)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}

// I128 reads a 16-byte big-endian two's-complement signed integer.
func (d *Decoder) I128(what string) (*big.Int, error) {
	b, err := d.need(16, what)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		v.Sub(v, i128Modulus)
	}
	return v, nil
}

// Bytes reads exactly n bytes. The returned slice is a copy.
func (d *Decoder) Bytes(n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("wire: %s: negative length %d: %w", what, n, ErrTruncated)
	}
	b, err := d.need(n, what)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Array32 reads a fixed 32-byte field.
func (d *Decoder) Array32(what string) ([32]byte, error) {
	var out [32]byte
	b, err := d.need(32, what)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// Skip discards n bytes.
func (d *Decoder) Skip(n int, what string) error {
	_, err := d.need(n, what)
	return err
}

// Rest consumes and returns everything remaining. The returned slice is a copy.
func (d *Decoder) Rest() []byte {
	out := make([]byte, d.Remaining())
	copy(out, d.buf[d.off:])
	d.off = len(d.buf)
	return out
}

// Finish fails if any input bytes remain unconsumed.
//
// Every complete-structure decode in this repository ends with Finish;
// trailing garbage after a valid structure is a decode failure, not noise.
func (d *Decoder) Finish() error {
	if r := d.Remaining(); r > 0 {
		return fmt.Errorf("wire: %d trailing bytes after structure: %w", r, ErrTrailingBytes)
	}
	return nil
}

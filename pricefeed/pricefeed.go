// Package pricefeed decodes verified accumulator leaves into typed feed
// messages.
//
// A leaf is one committed message: a leading type discriminator followed by
// the fixed big-endian body for that type. Unknown discriminators are a
// decode failure, not a silently skipped variant — the verification pipeline
// decides whether that failure is fatal to the whole bundle (it is, by
// default).
package pricefeed

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Omerhrr/pyth-crosschain/wire"
)

// Type discriminates leaf message variants.
type Type uint8

const (
	// TypePrice is a spot price update.
	TypePrice Type = 0
	// TypeTwap is a time-weighted average price update.
	TypeTwap Type = 1
)

// ErrUnknownType marks a leaf whose discriminator is outside the known set.
var ErrUnknownType = errors.New("pricefeed: unknown message type")

// Update is one decoded feed message: either *PriceUpdate or *TwapUpdate.
type Update interface {
	// Type returns the wire discriminator of the message.
	Type() Type
	// Feed returns the 32-byte feed identifier the message belongs to.
	Feed() [32]byte
	// Encode serializes the message back to leaf bytes.
	Encode() ([]byte, error)
}

// PriceUpdate is a spot price observation for one feed.
type PriceUpdate struct {
	FeedID          [32]byte
	Price           int64
	Conf            uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	EmaPrice        int64
	EmaConf         uint64
}

// TwapUpdate carries cumulative sums for time-weighted averaging.
// Cumulative values are 128-bit on the wire and carried as big.Int.
type TwapUpdate struct {
	FeedID          [32]byte
	CumulativePrice *big.Int
	CumulativeConf  *big.Int
	NumDownSlots    uint64
	Exponent        int32
	PublishTime     int64
	PrevPublishTime int64
	PublishSlot     uint64
}

func (u *PriceUpdate) Type() Type { return TypePrice }

func (u *PriceUpdate) Feed() [32]byte { return u.FeedID }

func (u *TwapUpdate) Type() Type { return TypeTwap }

func (u *TwapUpdate) Feed() [32]byte { return u.FeedID }

// Decode parses leaf bytes into a typed update.
//
// Strict: truncated bodies and trailing bytes fail, and the same input
// always fails the same way.
func Decode(leaf []byte) (Update, error) {
	d := wire.NewDecoder(leaf)
	disc, err := d.U8("message type")
	if err != nil {
		return nil, err
	}

	switch Type(disc) {
	case TypePrice:
		return decodePrice(d)
	case TypeTwap:
		return decodeTwap(d)
	default:
		return nil, fmt.Errorf("pricefeed: discriminator %d: %w", disc, ErrUnknownType)
	}
}

func decodePrice(d *wire.Decoder) (*PriceUpdate, error) {
	u := &PriceUpdate{}
	var err error
	if u.FeedID, err = d.Array32("feed id"); err != nil {
		return nil, err
	}
	if u.Price, err = d.I64("price"); err != nil {
		return nil, err
	}
	if u.Conf, err = d.U64("conf"); err != nil {
		return nil, err
	}
	if u.Exponent, err = d.I32("exponent"); err != nil {
		return nil, err
	}
	if u.PublishTime, err = d.I64("publish time"); err != nil {
		return nil, err
	}
	if u.PrevPublishTime, err = d.I64("prev publish time"); err != nil {
		return nil, err
	}
	if u.EmaPrice, err = d.I64("ema price"); err != nil {
		return nil, err
	}
	if u.EmaConf, err = d.U64("ema conf"); err != nil {
		return nil, err
	}
	return u, d.Finish()
}

func decodeTwap(d *wire.Decoder) (*TwapUpdate, error) {
	u := &TwapUpdate{}
	var err error
	if u.FeedID, err = d.Array32("feed id"); err != nil {
		return nil, err
	}
	if u.CumulativePrice, err = d.I128("cumulative price"); err != nil {
		return nil, err
	}
	if u.CumulativeConf, err = d.U128("cumulative conf"); err != nil {
		return nil, err
	}
	if u.NumDownSlots, err = d.U64("num down slots"); err != nil {
		return nil, err
	}
	if u.Exponent, err = d.I32("exponent"); err != nil {
		return nil, err
	}
	if u.PublishTime, err = d.I64("publish time"); err != nil {
		return nil, err
	}
	if u.PrevPublishTime, err = d.I64("prev publish time"); err != nil {
		return nil, err
	}
	if u.PublishSlot, err = d.U64("publish slot"); err != nil {
		return nil, err
	}
	return u, d.Finish()
}

// Encode serializes the update back to leaf bytes.
func (u *PriceUpdate) Encode() ([]byte, error) {
	e := wire.NewEncoder()
	e.U8(uint8(TypePrice))
	e.Array32(u.FeedID)
	e.I64(u.Price)
	e.U64(u.Conf)
	e.I32(u.Exponent)
	e.I64(u.PublishTime)
	e.I64(u.PrevPublishTime)
	e.I64(u.EmaPrice)
	e.U64(u.EmaConf)
	return e.Out(), nil
}

// Encode serializes the update back to leaf bytes. It fails if either
// cumulative value is outside its 128-bit wire range.
func (u *TwapUpdate) Encode() ([]byte, error) {
	e := wire.NewEncoder()
	e.U8(uint8(TypeTwap))
	e.Array32(u.FeedID)
	if err := e.I128(u.CumulativePrice); err != nil {
		return nil, err
	}
	if err := e.U128(u.CumulativeConf); err != nil {
		return nil, err
	}
	e.U64(u.NumDownSlots)
	e.I32(u.Exponent)
	e.I64(u.PublishTime)
	e.I64(u.PrevPublishTime)
	e.U64(u.PublishSlot)
	return e.Out(), nil
}

package pricefeed

import (
	"errors"
	"math/big"
	"testing"

	"github.com/Omerhrr/pyth-crosschain/wire"
)

func samplePrice() *PriceUpdate {
	return &PriceUpdate{
		FeedID:          [32]byte{0x01, 0x02, 0x03},
		Price:           -4200000000,
		Conf:            150000,
		Exponent:        -8,
		PublishTime:     1700000100,
		PrevPublishTime: 1700000099,
		EmaPrice:        -4190000000,
		EmaConf:         140000,
	}
}

func sampleTwap() *TwapUpdate {
	return &TwapUpdate{
		FeedID:          [32]byte{0xFE, 0xED},
		CumulativePrice: new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(3), 90)),
		CumulativeConf:  new(big.Int).Lsh(big.NewInt(7), 100),
		NumDownSlots:    12,
		Exponent:        -8,
		PublishTime:     1700000100,
		PrevPublishTime: 1700000090,
		PublishSlot:     224466,
	}
}

func TestPriceUpdate_RoundTrip(t *testing.T) {
	want := samplePrice()
	leaf, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(leaf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(*PriceUpdate)
	if !ok {
		t.Fatalf("Decode returned %T, want *PriceUpdate", decoded)
	}
	if *got != *want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if got.Type() != TypePrice || got.Feed() != want.FeedID {
		t.Fatalf("accessors mismatch")
	}
}

func TestTwapUpdate_RoundTrip(t *testing.T) {
	want := sampleTwap()
	leaf, err := want.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(leaf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(*TwapUpdate)
	if !ok {
		t.Fatalf("Decode returned %T, want *TwapUpdate", decoded)
	}
	if got.CumulativePrice.Cmp(want.CumulativePrice) != 0 {
		t.Fatalf("cumulative price: got %s want %s", got.CumulativePrice, want.CumulativePrice)
	}
	if got.CumulativeConf.Cmp(want.CumulativeConf) != 0 {
		t.Fatalf("cumulative conf: got %s want %s", got.CumulativeConf, want.CumulativeConf)
	}
	if got.FeedID != want.FeedID ||
		got.NumDownSlots != want.NumDownSlots ||
		got.Exponent != want.Exponent ||
		got.PublishTime != want.PublishTime ||
		got.PrevPublishTime != want.PrevPublishTime ||
		got.PublishSlot != want.PublishSlot {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	leaf, err := samplePrice().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	leaf[0] = 0x7F
	_, err = Decode(leaf)
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}

func TestDecode_TrailingBytes(t *testing.T) {
	for _, u := range []Update{samplePrice(), sampleTwap()} {
		leaf, err := u.Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if _, err := Decode(append(leaf, 0x00)); !errors.Is(err, wire.ErrTrailingBytes) {
			t.Fatalf("%T: got %v, want ErrTrailingBytes", u, err)
		}
	}
}

func TestDecode_Truncation(t *testing.T) {
	for _, u := range []Update{samplePrice(), sampleTwap()} {
		leaf, err := u.Encode()
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		for cut := 1; cut < len(leaf); cut++ {
			if _, err := Decode(leaf[:cut]); !errors.Is(err, wire.ErrTruncated) {
				t.Fatalf("%T cut at %d: got %v, want ErrTruncated", u, cut, err)
			}
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, wire.ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestTwapEncode_RangeChecked(t *testing.T) {
	u := sampleTwap()
	u.CumulativeConf = big.NewInt(-1)
	if _, err := u.Encode(); err == nil {
		t.Fatalf("negative cumulative conf accepted")
	}
	u = sampleTwap()
	u.CumulativePrice = new(big.Int).Lsh(big.NewInt(1), 127)
	if _, err := u.Encode(); err == nil {
		t.Fatalf("out-of-range cumulative price accepted")
	}
}

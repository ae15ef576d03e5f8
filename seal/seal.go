// Package seal implements the sealed attestation record format.
//
// The verification pipeline deliberately never checks signer-quorum
// signatures; that check happens upstream. Outside a chain runtime nothing
// structural stops a caller from feeding the pipeline bytes that were never
// quorum-checked, so the gap is closed with an explicit capability: the
// upstream quorum checker wraps each verified attested message in a sealed
// record signed with its seal key, and the trusted store refuses to ingest
// records whose seal does not verify against its configured sealer keys.
// A record read back from the store is therefore exactly as trustworthy as
// the holder of the seal key.
//
// Record layout (big-endian):
//
//	magic "PCAR" | version u8 | alg u8 |
//	sealer public key (u16 len + bytes) | signature (u16 len + bytes) |
//	attested message (u32 len + bytes)
//
// The signature covers sha256 of the attested message bytes.
package seal

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"github.com/Omerhrr/pyth-crosschain/wire"
)

// Magic prefixes every sealed attestation record.
const Magic = "PCAR"

// Version of the record format.
const Version uint8 = 1

// Alg identifies the seal signature scheme.
type Alg uint8

const (
	AlgEd25519    Alg = 1
	AlgDilithium3 Alg = 2
)

// ErrBadSeal marks a record whose seal signature does not verify.
var ErrBadSeal = errors.New("seal: signature did not verify")

// Record is a decoded sealed attestation record.
type Record struct {
	Alg       Alg
	SealerKey []byte
	Signature []byte
	// Attestation is the quorum-checked attested message bytes.
	Attestation []byte
}

// SealEd25519 wraps attestation bytes in a record sealed with priv.
func SealEd25519(attestation []byte, priv ed25519.PrivateKey) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("seal: ed25519 private key must be %d bytes", ed25519.PrivateKeySize)
	}
	digest := sha256.Sum256(attestation)
	sig := ed25519.Sign(priv, digest[:])
	pub := priv.Public().(ed25519.PublicKey)
	return encode(AlgEd25519, pub, sig, attestation)
}

// SealDilithium3 wraps attestation bytes in a record sealed with priv.
func SealDilithium3(attestation []byte, pub *mode3.PublicKey, priv *mode3.PrivateKey) ([]byte, error) {
	if pub == nil || priv == nil {
		return nil, errors.New("seal: missing dilithium3 key")
	}
	digest := sha256.Sum256(attestation)
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, digest[:], sig)
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return encode(AlgDilithium3, pubBytes, sig, attestation)
}

func encode(alg Alg, pub, sig, attestation []byte) ([]byte, error) {
	e := wire.NewEncoder()
	e.Bytes([]byte(Magic))
	e.U8(Version)
	e.U8(uint8(alg))
	if err := e.Bytes16(pub); err != nil {
		return nil, err
	}
	if err := e.Bytes16(sig); err != nil {
		return nil, err
	}
	if len(attestation) > 0x7FFFFFFF {
		return nil, errors.New("seal: attestation too large")
	}
	e.U32(uint32(len(attestation)))
	e.Bytes(attestation)
	return e.Out(), nil
}

// Decode parses a sealed record without verifying its seal.
func Decode(data []byte) (*Record, error) {
	d := wire.NewDecoder(data)

	magic, err := d.Bytes(len(Magic), "record magic")
	if err != nil {
		return nil, err
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("seal: bad record magic %q", magic)
	}
	version, err := d.U8("record version")
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("seal: unsupported record version %d", version)
	}

	r := &Record{}
	alg, err := d.U8("seal alg")
	if err != nil {
		return nil, err
	}
	r.Alg = Alg(alg)

	keyLen, err := d.U16("sealer key length")
	if err != nil {
		return nil, err
	}
	if r.SealerKey, err = d.Bytes(int(keyLen), "sealer key"); err != nil {
		return nil, err
	}
	sigLen, err := d.U16("seal signature length")
	if err != nil {
		return nil, err
	}
	if r.Signature, err = d.Bytes(int(sigLen), "seal signature"); err != nil {
		return nil, err
	}
	attLen, err := d.U32("attestation length")
	if err != nil {
		return nil, err
	}
	if r.Attestation, err = d.Bytes(int(attLen), "attestation"); err != nil {
		return nil, err
	}
	return r, d.Finish()
}

// Verify checks the record's seal signature against its embedded sealer key.
// Trusting the sealer key itself is the caller's job (see store.AttestationStore).
func (r *Record) Verify() error {
	digest := sha256.Sum256(r.Attestation)
	switch r.Alg {
	case AlgEd25519:
		if len(r.SealerKey) != ed25519.PublicKeySize {
			return fmt.Errorf("seal: invalid ed25519 sealer key length %d", len(r.SealerKey))
		}
		if len(r.Signature) != ed25519.SignatureSize {
			return fmt.Errorf("seal: invalid ed25519 signature length %d", len(r.Signature))
		}
		if !ed25519.Verify(ed25519.PublicKey(r.SealerKey), digest[:], r.Signature) {
			return ErrBadSeal
		}
		return nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(r.SealerKey); err != nil {
			return fmt.Errorf("seal: invalid dilithium3 sealer key: %w", err)
		}
		if len(r.Signature) != mode3.SignatureSize {
			return fmt.Errorf("seal: invalid dilithium3 signature length %d", len(r.Signature))
		}
		if !mode3.Verify(&pk, digest[:], r.Signature) {
			return ErrBadSeal
		}
		return nil
	default:
		return fmt.Errorf("seal: unsupported seal alg %d", r.Alg)
	}
}

// KeyString encodes a sealer public key as "<alg>:<base64>", the form used
// in configuration and on the command line.
func (r *Record) KeyString() string {
	return algName(r.Alg) + ":" + base64.StdEncoding.EncodeToString(r.SealerKey)
}

func algName(a Alg) string {
	switch a {
	case AlgEd25519:
		return "ed25519"
	case AlgDilithium3:
		return "dilithium3"
	default:
		return fmt.Sprintf("alg%d", a)
	}
}

// ParseKeyString decodes a "<alg>:<base64>" sealer key string.
func ParseKeyString(s string) (Alg, []byte, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return 0, nil, fmt.Errorf("seal: key string missing algorithm prefix")
	}
	var alg Alg
	switch s[:idx] {
	case "ed25519":
		alg = AlgEd25519
	case "dilithium3":
		alg = AlgDilithium3
	default:
		return 0, nil, fmt.Errorf("seal: unsupported key algorithm %q", s[:idx])
	}
	key, err := base64.StdEncoding.DecodeString(s[idx+1:])
	if err != nil {
		return 0, nil, fmt.Errorf("seal: invalid key encoding: %w", err)
	}
	if alg == AlgEd25519 && len(key) != ed25519.PublicKeySize {
		return 0, nil, fmt.Errorf("seal: invalid ed25519 key length %d", len(key))
	}
	return alg, key, nil
}

// GenerateEd25519 returns a fresh ed25519 seal keypair.
func GenerateEd25519(rand io.Reader) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand)
}

// GenerateDilithium3 returns a fresh dilithium3 seal keypair.
func GenerateDilithium3(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

// Algorithm names a public key algorithm.
type Algorithm string

const (
	Ed25519    Algorithm = "ed25519"
	Dilithium3 Algorithm = "dilithium3"
)

var ErrUnsupportedAlgorithm = errors.New("keys: unsupported algorithm")

// tag returns the key material prefix for alg.
func (alg Algorithm) tag() (byte, bool) {
	switch alg {
	case Ed25519:
		return 0x01, true
	case Dilithium3:
		return 0x02, true
	default:
		return 0, false
	}
}

func (alg Algorithm) keySize() int {
	switch alg {
	case Ed25519:
		return ed25519.PublicKeySize
	case Dilithium3:
		return mode3.PublicKeySize
	default:
		return 0
	}
}

// PublicKey is an algorithm-tagged public key.
type PublicKey struct {
	Alg Algorithm
	Key []byte
}

// Material returns the key material addresses and fingerprints are derived
// from: one algorithm tag byte followed by the raw public key.
func (k PublicKey) Material() []byte {
	t, _ := k.Alg.tag()
	out := make([]byte, 0, 1+len(k.Key))
	out = append(out, t)
	return append(out, k.Key...)
}

// Validate checks the algorithm and key length.
func (k PublicKey) Validate() error {
	if _, ok := k.Alg.tag(); !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, k.Alg)
	}
	if want := k.Alg.keySize(); len(k.Key) != want {
		return fmt.Errorf("%s public key must be %d bytes, got %d", k.Alg, want, len(k.Key))
	}
	return nil
}

// String returns "<alg>:<base64 key>".
func (k PublicKey) String() string {
	return string(k.Alg) + ":" + base64.StdEncoding.EncodeToString(k.Key)
}

// ParsePublicKey decodes the "<alg>:<base64 key>" form.
func ParsePublicKey(s string) (PublicKey, error) {
	alg, enc, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return PublicKey{}, errors.New("public key must be <alg>:<base64>")
	}
	raw, err := base64.StdEncoding.Strict().DecodeString(enc)
	if err != nil {
		return PublicKey{}, fmt.Errorf("invalid public key base64: %w", err)
	}
	k := PublicKey{Alg: Algorithm(alg), Key: raw}
	if err := k.Validate(); err != nil {
		return PublicKey{}, err
	}
	return k, nil
}

// Ed25519FromSeed returns the public and private key for a 32-byte seed.
func Ed25519FromSeed(seed []byte) (PublicKey, ed25519.PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return PublicKey{}, nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return PublicKey{Alg: Ed25519, Key: []byte(pub)}, priv, nil
}

// GenerateEd25519 returns a new Ed25519 key pair and its seed.
func GenerateEd25519(rand io.Reader) (PublicKey, []byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return PublicKey{}, nil, err
	}
	pub, _, err := Ed25519FromSeed(seed)
	if err != nil {
		return PublicKey{}, nil, err
	}
	return pub, seed, nil
}

// GenerateDilithium3 returns a new Dilithium3 key pair.
func GenerateDilithium3(rand io.Reader) (PublicKey, *mode3.PrivateKey, error) {
	pk, sk, err := mode3.GenerateKey(rand)
	if err != nil {
		return PublicKey{}, nil, err
	}
	raw, err := pk.MarshalBinary()
	if err != nil {
		return PublicKey{}, nil, err
	}
	return PublicKey{Alg: Dilithium3, Key: raw}, sk, nil
}

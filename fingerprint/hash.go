package fingerprint

import (
	"crypto/sha512"
	"encoding/hex"
)

// HashSize is the size in bytes of a fingerprint hash.
const HashSize = sha512.Size384

// HashHexLen is the number of characters in the text form of a hash.
const HashHexLen = HashSize * 2

// Hash is the SHA-384 digest of an identity's public key material.
type Hash [HashSize]byte

// ZeroHash is the unset hash.
var ZeroHash Hash

// HashKey returns the SHA-384 hash of public key material. It depends on the
// key material only, never on the derived address.
func HashKey(material []byte) Hash {
	return Hash(sha512.Sum384(material))
}

// IsZero reports whether h is the unset hash.
func (h Hash) IsZero() bool { return h == ZeroHash }

// String returns the 96 digit lowercase hex form.
func (h Hash) String() string { return hex.EncodeToString(h[:]) }

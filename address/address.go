package address

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// Bits is the width of an address.
	Bits = 40

	// Size is the number of bytes in the binary form of an address.
	Size = Bits / 8

	// HexLen is the number of characters in the text form of an address.
	HexLen = Size * 2

	// ReservedPrefix is the most significant byte of the reserved range.
	ReservedPrefix = 0xff

	mask = (uint64(1) << Bits) - 1
)

// derivationDomain separates address derivation from every other use of the
// key material.
const derivationDomain = "xdao-nodeid-address-v1"

// Address is a 40-bit node address held in the low bits of a uint64.
type Address uint64

// Derive returns the address for public key material.
//
// The first Size bytes of BLAKE2b-512(domain || 0x00 || material) form the
// candidate. Zero and reserved candidates are skipped by re-hashing the digest
// until a valid one appears.
func Derive(material []byte) Address {
	buf := make([]byte, 0, len(derivationDomain)+1+len(material))
	buf = append(buf, derivationDomain...)
	buf = append(buf, 0)
	buf = append(buf, material...)

	digest := blake2b.Sum512(buf)
	for {
		var b [Size]byte
		copy(b[:], digest[:Size])
		if a := FromBytes(b); a.Valid() {
			return a
		}
		digest = blake2b.Sum512(digest[:])
	}
}

// FromBytes decodes a big-endian 40-bit address.
func FromBytes(b [Size]byte) Address {
	return Address(uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4]))
}

// Bytes returns the big-endian binary form. Bits above 40 are dropped.
func (a Address) Bytes() [Size]byte {
	return [Size]byte{byte(a >> 32), byte(a >> 24), byte(a >> 16), byte(a >> 8), byte(a)}
}

// Validate reports why a is not a usable address, or nil.
func Validate(a Address) error {
	switch {
	case a == 0:
		return ErrZero
	case uint64(a)&^mask != 0:
		return ErrOverflow
	case byte(a>>32) == ReservedPrefix:
		return ErrReserved
	}
	return nil
}

// Valid reports whether a is non-zero, fits 40 bits and is outside the
// reserved range.
func (a Address) Valid() bool { return Validate(a) == nil }

// Fits reports whether a can be represented in 40 bits.
func (a Address) Fits() bool { return uint64(a)&^mask == 0 }

// String returns the 10 digit lowercase hex form. Values wider than 40 bits
// print with their full width so they are never mistaken for a valid address.
func (a Address) String() string {
	if !a.Fits() {
		return fmt.Sprintf("%x", uint64(a))
	}
	b := a.Bytes()
	return hex.EncodeToString(b[:])
}

// Parse decodes a 10 digit hex address. Decoding is case-insensitive.
func Parse(s string) (Address, error) {
	if len(s) != HexLen {
		return 0, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidHex, HexLen, len(s))
	}
	var b [Size]byte
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	a := FromBytes(b)
	if err := Validate(a); err != nil {
		return 0, err
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	if !a.Fits() {
		return nil, ErrOverflow
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

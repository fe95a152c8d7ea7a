package fingerprint

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"sort"

	"xdao.co/nodeid/address"
)

// Fingerprint is an address plus the full hash of the key material the
// address was derived from.
//
// Fingerprint is a comparable value type and may be used as a map key.
type Fingerprint struct {
	Address address.Address
	Hash    Hash
}

// New builds a fingerprint from its parts. No validation happens here beyond
// the fixed sizes of the types; use Validate or Parse at trust boundaries.
func New(addr address.Address, hash Hash) Fingerprint {
	return Fingerprint{Address: addr, Hash: hash}
}

// FromKey computes the fingerprint of public key material.
func FromKey(material []byte) Fingerprint {
	return New(address.Derive(material), HashKey(material))
}

// VerifyAgainst reports whether material is the key this fingerprint was
// computed from. Both the address and the hash must match; a key that only
// collides on the address is rejected.
func (f Fingerprint) VerifyAgainst(material []byte) bool {
	h := HashKey(material)
	hashOK := subtle.ConstantTimeCompare(f.Hash[:], h[:]) == 1
	addrOK := address.Derive(material) == f.Address
	return hashOK && addrOK
}

// Equal reports whether f and g are identical.
func (f Fingerprint) Equal(g Fingerprint) bool { return f == g }

// Compare orders fingerprints by address, then by hash bytes. It returns -1,
// 0 or +1.
func (f Fingerprint) Compare(g Fingerprint) int {
	switch {
	case f.Address < g.Address:
		return -1
	case f.Address > g.Address:
		return 1
	}
	return bytes.Compare(f.Hash[:], g.Hash[:])
}

// Less reports whether f sorts before g.
func (f Fingerprint) Less(g Fingerprint) bool { return f.Compare(g) < 0 }

// IsZero reports whether f is the empty fingerprint (no address).
func (f Fingerprint) IsZero() bool { return f.Address == 0 }

// HaveHash reports whether the hash is set.
func (f Fingerprint) HaveHash() bool { return !f.Hash.IsZero() }

// Validate checks the data model invariants: a valid address and a non-zero
// hash.
func (f Fingerprint) Validate() error {
	if err := f.validate(); err != nil {
		return err
	}
	return nil
}

func (f Fingerprint) validate() *Error {
	if err := validateAddress(f.Address); err != nil {
		return err
	}
	if !f.HaveHash() {
		return newError(KindZeroHash, "FP-VAL-002", FieldHash, "hash is all zero")
	}
	return nil
}

func validateAddress(a address.Address) *Error {
	err := address.Validate(a)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, address.ErrZero):
		return wrapError(KindZeroAddress, "FP-VAL-001", FieldAddress, "address is zero", err)
	default:
		return wrapError(KindReservedAddress, "FP-VAL-003", FieldAddress, "address "+a.String()+" is not assignable", err)
	}
}

// Sort sorts fps in place by Compare.
func Sort(fps []Fingerprint) {
	sort.Slice(fps, func(i, j int) bool { return fps[i].Less(fps[j]) })
}

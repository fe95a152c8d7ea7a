package fingerprint

import (
	"encoding/hex"
	"fmt"
	"strings"

	"xdao.co/nodeid/address"
	"xdao.co/nodeid/compliance"
)

const (
	// Delimiter separates the address and hash fields of the text form.
	Delimiter = '-'

	// TextLen is the length of the canonical text form.
	TextLen = address.HexLen + 1 + HashHexLen
)

// AppendText appends the canonical text form of f to dst.
//
// The only failure is an address wider than 40 bits, which cannot come from
// Parse or FromKey; it is reported as a KindEncode error rather than being
// truncated.
func (f Fingerprint) AppendText(dst []byte) ([]byte, error) {
	if !f.Address.Fits() {
		return dst, newError(KindEncode, "FP-ENC-001", FieldAddress,
			fmt.Sprintf("address %s exceeds %d bits", f.Address, address.Bits))
	}
	var buf [TextLen]byte
	ab := f.Address.Bytes()
	n := hex.Encode(buf[:address.HexLen], ab[:])
	buf[n] = Delimiter
	n++
	n += hex.Encode(buf[n:], f.Hash[:])
	if n != TextLen {
		return dst, newError(KindEncode, "FP-ENC-002", "", fmt.Sprintf("encoded %d bytes, expected %d", n, TextLen))
	}
	return append(dst, buf[:]...), nil
}

// Encode returns the canonical text form of f.
func (f Fingerprint) Encode() (string, error) {
	b, err := f.AppendText(make([]byte, 0, TextLen))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// String returns the canonical text form of f. It panics if f cannot be
// encoded, which only happens for a Fingerprint built by hand with an address
// wider than 40 bits.
func (f Fingerprint) String() string {
	s, err := f.Encode()
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decodes the text form of a fingerprint. Hex digits may be in either
// case. The result always satisfies Validate.
func Parse(s string) (Fingerprint, error) {
	return ParseWithCompliance(s, compliance.Permissive)
}

// ParseStrict is Parse in strict compliance mode: only the canonical
// lowercase form is accepted.
func ParseStrict(s string) (Fingerprint, error) {
	return ParseWithCompliance(s, compliance.Strict)
}

// ParseWithCompliance decodes s under the given compliance mode.
func ParseWithCompliance(s string, mode compliance.ComplianceMode) (Fingerprint, error) {
	f, err := parse(s, mode)
	if err != nil {
		err.Input = s
		return Fingerprint{}, err
	}
	return f, nil
}

// MustParse is like Parse but panics on error. It is intended for constants
// and tests.
func MustParse(s string) Fingerprint {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

func parse(s string, mode compliance.ComplianceMode) (Fingerprint, *Error) {
	fields := strings.Split(s, string(Delimiter))
	if len(fields) != 2 {
		return Fingerprint{}, newError(KindMalformed, "FP-STR-001", "",
			fmt.Sprintf("expected 2 fields separated by %q, got %d", Delimiter, len(fields)))
	}
	addrField, hashField := fields[0], fields[1]

	if len(addrField) != address.HexLen {
		return Fingerprint{}, newError(KindInvalidHex, "FP-HEX-001", FieldAddress,
			fmt.Sprintf("address must be %d hex digits, got %d characters", address.HexLen, len(addrField)))
	}
	var ab [address.Size]byte
	if _, err := hex.Decode(ab[:], []byte(addrField)); err != nil {
		return Fingerprint{}, wrapError(KindInvalidHex, "FP-HEX-001", FieldAddress, "address is not hex", err)
	}

	if len(hashField) != HashHexLen {
		return Fingerprint{}, newError(KindInvalidHex, "FP-HEX-002", FieldHash,
			fmt.Sprintf("hash must be %d hex digits, got %d characters", HashHexLen, len(hashField)))
	}
	var h Hash
	if _, err := hex.Decode(h[:], []byte(hashField)); err != nil {
		return Fingerprint{}, wrapError(KindInvalidHex, "FP-HEX-002", FieldHash, "hash is not hex", err)
	}

	// Both fields are hex at this point, so case is the only possible
	// difference from the canonical form.
	if mode == compliance.Strict && s != strings.ToLower(s) {
		return Fingerprint{}, newError(KindCanonical, "FP-CANON-001", "", "fingerprint is not in canonical lowercase form")
	}

	f := New(address.FromBytes(ab), h)
	if err := f.validate(); err != nil {
		return Fingerprint{}, err
	}
	return f, nil
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return f.AppendText(make([]byte, 0, TextLen))
}

// UnmarshalText implements encoding.TextUnmarshaler. Invalid input yields an
// *Error whose Input field holds the rejected text.
func (f *Fingerprint) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Package compliance selects how strictly parsers treat non-canonical input.
package compliance

// ComplianceMode selects how aggressively the library rejects ambiguity.
//
// Permissive mode accepts every input that decodes to exactly one value (for
// example upper-case hex). Strict mode additionally requires the canonical
// byte form, so that a value round-trips through Parse and Encode unchanged.
type ComplianceMode int

const (
	Permissive ComplianceMode = iota
	Strict
)

// String returns the lowercase mode name.
func (m ComplianceMode) String() string {
	switch m {
	case Permissive:
		return "permissive"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseMode maps a mode name to a ComplianceMode. The empty string selects
// Permissive.
func ParseMode(s string) (ComplianceMode, bool) {
	switch s {
	case "", "permissive":
		return Permissive, true
	case "strict":
		return Strict, true
	default:
		return Permissive, false
	}
}

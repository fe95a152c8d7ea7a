// Package fingerprint implements full-fidelity node identity fingerprints.
//
// A Fingerprint binds a 40-bit address (package address) to the SHA-384 hash
// of the same public key material. The address alone is short enough that an
// attacker can grind a key that collides with it; the hash restores full
// collision resistance, so authenticating a key means checking both fields
// (VerifyAgainst).
//
// # Text form
//
// The canonical text form is
//
//	<address: 10 lowercase hex digits>-<hash: 96 lowercase hex digits>
//
// Encode always produces the canonical form. Parse accepts either case and
// rejects anything else with a structured *Error (see Kind and RuleID).
// MarshalText and UnmarshalText use the same form, so a Fingerprint is a
// single string field in JSON documents.
//
// All functions are pure and safe for concurrent use.
package fingerprint

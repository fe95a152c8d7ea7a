// Package address implements the short node address: a 40-bit identifier
// derived deterministically from public key material.
//
// An address is a compressed, human-typable handle. It is collision prone by
// construction (2^40 values); callers that need to authenticate a key must
// compare the full fingerprint (see package fingerprint), not the address.
//
// Text form is exactly 10 lowercase hex digits, zero padded.
package address

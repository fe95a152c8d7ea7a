// Package fingerprintrpc serves fingerprint derivation, canonicalization,
// verification and trust-policy authentication over gRPC.
//
// Service: xdao.nodeid.fingerprintrpc.v1.Fingerprints (see fingerprints.proto).
package fingerprintrpc

// Package keys produces public key material for node identities.
//
// Key management proper (storage, rotation, signing) lives outside this
// module. This package only covers what callers need to obtain the opaque key
// material that addresses and fingerprints are derived from:
//
//   - Ed25519 keys from 32-byte seeds, and deterministic role seeds derived
//     from a root seed (DeriveRoleSeed).
//   - Dilithium3 (post-quantum) keys.
//   - The "<alg>:<base64>" text form of a public key (PublicKey.String,
//     ParsePublicKey).
//
// PublicKey.Material prefixes the raw key with an algorithm tag so keys of
// different algorithms never share key material.
package keys

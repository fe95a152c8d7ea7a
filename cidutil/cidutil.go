// Package cidutil converts between fingerprint hashes and content identifiers.
//
// A fingerprint hash is a SHA-384 digest, so its CID form is a CIDv1 with the
// "raw" multicodec and a sha2-384 multihash. The CID carries the same 48 bytes
// as the fingerprint hash; it carries no address.
package cidutil

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	mhcore "github.com/multiformats/go-multihash/core"
)

// DigestSize is the length of a sha2-384 digest.
const DigestSize = 48

var (
	ErrUndefined       = errors.New("cidutil: undefined cid")
	ErrUnsupportedHash = errors.New("cidutil: cid is not sha2-384")
)

// CIDv1RawSHA384 returns the CIDv1 (raw + sha2-384) of data.
func CIDv1RawSHA384(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, mhcore.SHA2_384, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// CIDFromSHA384Digest wraps an existing sha2-384 digest in a CIDv1.
func CIDFromSHA384Digest(digest []byte) (cid.Cid, error) {
	if len(digest) != DigestSize {
		return cid.Undef, fmt.Errorf("cidutil: sha2-384 digest must be %d bytes, got %d", DigestSize, len(digest))
	}
	mh, err := multihash.Encode(digest, mhcore.SHA2_384)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// SHA384Digest extracts the sha2-384 digest carried by id.
func SHA384Digest(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrUndefined
	}
	dmh, err := multihash.Decode(id.Hash())
	if err != nil {
		return nil, err
	}
	if dmh.Code != mhcore.SHA2_384 || len(dmh.Digest) != DigestSize {
		return nil, fmt.Errorf("%w: code 0x%x length %d", ErrUnsupportedHash, dmh.Code, len(dmh.Digest))
	}
	return dmh.Digest, nil
}

// Decode parses a CID string and extracts its sha2-384 digest.
func Decode(s string) ([]byte, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return nil, err
	}
	return SHA384Digest(id)
}

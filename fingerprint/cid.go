package fingerprint

import (
	"github.com/ipfs/go-cid"

	"xdao.co/nodeid/cidutil"
)

// CID returns the content identifier of the fingerprint hash (CIDv1, raw,
// sha2-384). The address is not part of the CID.
func (h Hash) CID() (cid.Cid, error) {
	return cidutil.CIDFromSHA384Digest(h[:])
}

// HashFromCID extracts a fingerprint hash from a sha2-384 CID.
func HashFromCID(id cid.Cid) (Hash, error) {
	digest, err := cidutil.SHA384Digest(id)
	if err != nil {
		return ZeroHash, err
	}
	var h Hash
	copy(h[:], digest)
	return h, nil
}

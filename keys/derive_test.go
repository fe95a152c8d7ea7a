package keys

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveRoleSeed(root, "controller")
	require.NoError(t, err)
	b, err := DeriveRoleSeed(root, "controller")
	require.NoError(t, err)
	assert.Equal(t, a, b, "expected deterministic derivation")
	assert.Len(t, a, ed25519.SeedSize)

	c, err := DeriveRoleSeed(root, "member")
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "expected different roles to derive different seeds")
}

func TestDeriveRoleSeedRejectsBadInput(t *testing.T) {
	_, err := DeriveRoleSeed(make([]byte, 16), "controller")
	assert.Error(t, err)

	_, err = DeriveRoleSeed(make([]byte, ed25519.SeedSize), "")
	assert.Error(t, err)

	_, err = DeriveRoleSeed(make([]byte, ed25519.SeedSize), "bad role")
	assert.Error(t, err)
}

func TestParseSeedHex(t *testing.T) {
	const seedHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

	seed, err := ParseSeedHex(seedHex)
	require.NoError(t, err)
	assert.Equal(t, byte(0x1f), seed[31])

	prefixed, err := ParseSeedHex(" 0x" + seedHex + "\n")
	require.NoError(t, err)
	assert.Equal(t, seed, prefixed)

	_, err = ParseSeedHex("abcd")
	assert.Error(t, err)
	_, err = ParseSeedHex("zz")
	assert.Error(t, err)
}

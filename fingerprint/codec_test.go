package fingerprint

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/nodeid/address"
	"xdao.co/nodeid/compliance"
)

const scenarioText = "0102030405-000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f202122232425262728292a2b2c2d2e2f"

func scenarioFingerprint() Fingerprint {
	var h Hash
	for i := range h {
		h[i] = byte(i)
	}
	return New(0x0102030405, h)
}

func TestEncodeScenario(t *testing.T) {
	t.Parallel()

	fp := scenarioFingerprint()
	s, err := fp.Encode()
	require.NoError(t, err)
	assert.Equal(t, scenarioText, s)
	assert.Len(t, s, TextLen)
	assert.Equal(t, scenarioText, fp.String())

	parsed, err := Parse(scenarioText)
	require.NoError(t, err)
	assert.Equal(t, fp, parsed)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, key := range [][]byte{publicKey1, publicKey2, publicKey3, []byte("x")} {
		fp := FromKey(key)
		s, err := fp.Encode()
		require.NoError(t, err)

		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, fp, got)

		strict, err := ParseStrict(s)
		require.NoError(t, err)
		assert.Equal(t, fp, strict)
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	t.Parallel()

	lower, err := Parse(scenarioText)
	require.NoError(t, err)
	upper, err := Parse(strings.ToUpper(scenarioText))
	require.NoError(t, err)
	assert.Equal(t, lower, upper)
	assert.Equal(t, scenarioText, upper.String())

	_, err = ParseStrict(strings.ToUpper(scenarioText))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCanonical))
	assert.Equal(t, "FP-CANON-001", RuleID(err))

	_, err = ParseWithCompliance(strings.ToUpper(scenarioText), compliance.Permissive)
	assert.NoError(t, err)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	zeroHash := strings.Repeat("0", HashHexLen)
	validHash := scenarioText[address.HexLen+1:]

	testCases := []struct {
		name   string
		in     string
		kind   Kind
		ruleID string
		field  string
	}{
		{"empty", "", KindMalformed, "FP-STR-001", ""},
		{"not a fingerprint", "not-a-fingerprint", KindMalformed, "FP-STR-001", ""},
		{"no delimiter", strings.Replace(scenarioText, "-", "", 1), KindMalformed, "FP-STR-001", ""},
		{"extra field", scenarioText + "-00", KindMalformed, "FP-STR-001", ""},
		{"short address", "01020304-" + validHash, KindInvalidHex, "FP-HEX-001", FieldAddress},
		{"non-hex address", "01020304zz-" + validHash, KindInvalidHex, "FP-HEX-001", FieldAddress},
		{"short hash", "0102030405-" + validHash[2:], KindInvalidHex, "FP-HEX-002", FieldHash},
		{"non-hex hash", "0102030405-" + validHash[:94] + "zz", KindInvalidHex, "FP-HEX-002", FieldHash},
		{"whitespace", " " + scenarioText, KindInvalidHex, "FP-HEX-001", FieldAddress},
		{"trailing newline", scenarioText + "\n", KindInvalidHex, "FP-HEX-002", FieldHash},
		{"zero address", "0000000000-" + validHash, KindZeroAddress, "FP-VAL-001", FieldAddress},
		{"zero hash", "0102030405-" + zeroHash, KindZeroHash, "FP-VAL-002", FieldHash},
		{"all zero", "0000000000-" + zeroHash, KindZeroAddress, "FP-VAL-001", FieldAddress},
		{"reserved address", "ff01020304-" + validHash, KindReservedAddress, "FP-VAL-003", FieldAddress},
	}
	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fp, err := Parse(tt.in)
			require.Error(t, err)
			assert.Equal(t, Fingerprint{}, fp)

			var e *Error
			require.True(t, errors.As(err, &e), "expected *Error, got %T", err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.ruleID, e.RuleID)
			assert.Equal(t, tt.field, e.Field)
			assert.Equal(t, tt.in, e.Input)
			assert.NotEmpty(t, e.Error())
		})
	}
}

func TestParseZeroAddressWrapsAddressError(t *testing.T) {
	t.Parallel()

	_, err := Parse("0000000000-" + scenarioText[address.HexLen+1:])
	assert.ErrorIs(t, err, address.ErrZero)
}

func TestEncodeFault(t *testing.T) {
	t.Parallel()

	fp := New(1<<40, HashKey(publicKey1))

	s, err := fp.Encode()
	require.Error(t, err)
	assert.Empty(t, s)
	assert.True(t, IsKind(err, KindEncode))
	assert.Equal(t, "FP-ENC-001", RuleID(err))

	_, err = fp.MarshalText()
	assert.True(t, IsKind(err, KindEncode))

	assert.Panics(t, func() { _ = fp.String() })
}

func TestEncodeZeroValueIsStructural(t *testing.T) {
	t.Parallel()

	s, err := Fingerprint{}.Encode()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", address.HexLen)+"-"+strings.Repeat("0", HashHexLen), s)

	_, err = Parse(s)
	assert.True(t, IsKind(err, KindZeroAddress))
}

func TestAppendText(t *testing.T) {
	t.Parallel()

	b, err := scenarioFingerprint().AppendText([]byte("fp="))
	require.NoError(t, err)
	assert.Equal(t, "fp="+scenarioText, string(b))
}

func TestMustParse(t *testing.T) {
	t.Parallel()

	assert.Equal(t, scenarioFingerprint(), MustParse(scenarioText))
	assert.Panics(t, func() { MustParse("bogus") })
}

type peerRecord struct {
	Name       string      `json:"name"`
	Controller Fingerprint `json:"controller"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	rec := peerRecord{Name: "ctl", Controller: scenarioFingerprint()}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"ctl","controller":"`+scenarioText+`"}`, string(b))

	var got peerRecord
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, rec, got)

	upper := `{"name":"ctl","controller":"` + strings.ToUpper(scenarioText) + `"}`
	require.NoError(t, json.Unmarshal([]byte(upper), &got))
	assert.Equal(t, rec, got)
}

func TestJSONInvalid(t *testing.T) {
	t.Parallel()

	var got peerRecord
	err := json.Unmarshal([]byte(`{"controller":"nope"}`), &got)
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e), "expected *Error, got %T", err)
	assert.Equal(t, "nope", e.Input)
	assert.Equal(t, KindMalformed, e.Kind)

	err = json.Unmarshal([]byte(`{"controller":42}`), &got)
	assert.Error(t, err)
}

func TestCID(t *testing.T) {
	t.Parallel()

	fp := FromKey(publicKey1)
	id, err := fp.Hash.CID()
	require.NoError(t, err)

	h, err := HashFromCID(id)
	require.NoError(t, err)
	assert.Equal(t, fp.Hash, h)
}

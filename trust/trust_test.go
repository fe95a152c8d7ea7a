package trust

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/nodeid/fingerprint"
)

func keyMaterial(b byte) []byte {
	return bytes.Repeat([]byte{b}, 33)
}

func doc(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

func twoEntryDoc(t *testing.T) ([]byte, fingerprint.Fingerprint, fingerprint.Fingerprint) {
	t.Helper()
	a := fingerprint.FromKey(keyMaterial(1))
	b := fingerprint.FromKey(keyMaterial(2))
	if b.Less(a) {
		a, b = b, a
	}
	return doc(
		Preamble,
		"META",
		"Spec: "+SpecName,
		"Version: 1",
		"",
		"TRUST",
		"Fingerprint: "+a.String(),
		"Role: controller",
		"Fingerprint: "+b.String(),
		"Role: member",
		Postamble,
	), a, b
}

func TestParseStrictValid(t *testing.T) {
	data, a, b := twoEntryDoc(t)
	p, err := ParseStrict(data)
	require.NoError(t, err)
	assert.Equal(t, SpecName, p.Meta("Spec"))
	assert.Equal(t, "1", p.Meta("Version"))
	require.Equal(t, 2, p.Len())
	assert.Equal(t, a, p.Entries()[0].Fingerprint)
	assert.Equal(t, b, p.Entries()[1].Fingerprint)
}

func TestRenderIsCanonical(t *testing.T) {
	data, _, _ := twoEntryDoc(t)
	p, err := ParseStrict(data)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(p.Render()))

	again, err := ParseStrict(p.Render())
	require.NoError(t, err)
	assert.Equal(t, p.Entries(), again.Entries())
}

func TestParsePermissive(t *testing.T) {
	a := fingerprint.FromKey(keyMaterial(1))
	b := fingerprint.FromKey(keyMaterial(2))
	if a.Less(b) {
		a, b = b, a
	}
	// Unsorted entries, upper-case hex, no Version, trailing newline.
	data := append(doc(
		Preamble,
		"META",
		"Spec: "+SpecName,
		"TRUST",
		"Fingerprint: "+strings.ToUpper(a.String()),
		"Role: member",
		"Fingerprint: "+b.String(),
		"Role: controller",
		Postamble,
	), '\n')

	p, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, b, p.Entries()[0].Fingerprint)
	assert.Equal(t, a, p.Entries()[1].Fingerprint)

	_, err = ParseStrict(data)
	require.Error(t, err)
}

func TestParseStrictRejections(t *testing.T) {
	data, a, b := twoEntryDoc(t)
	lines := strings.Split(string(data), "\n")

	replace := func(i int, s string) []byte {
		out := append([]string(nil), lines...)
		out[i] = s
		return doc(out...)
	}

	cases := map[string][]byte{
		"trailing newline":   append(append([]byte(nil), data...), '\n'),
		"missing version":    replace(3, "Other: x"),
		"upper-case hex":     replace(6, "Fingerprint: "+strings.ToUpper(a.String())),
		"unsorted":           replace(8, "Fingerprint: "+a.String()),
		"bad spec":           replace(2, "Spec: something-else"),
		"missing role":       replace(7, "Fingerprint: "+b.String()),
		"bad role":           replace(7, "Role: not a role"),
		"no postamble":       doc(lines[:len(lines)-1]...),
		"no preamble":        doc(lines[1:]...),
		"trailing space":     replace(7, "Role: controller "),
		"content no section": doc(Preamble, "Spec: "+SpecName, Postamble),
		"not key value":      replace(4, "garbage"),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseStrict(in)
			require.Error(t, err)
		})
	}
}

func TestParseRejectsCRAndBOM(t *testing.T) {
	data, _, _ := twoEntryDoc(t)
	_, err := Parse(bytes.ReplaceAll(data, []byte("\n"), []byte("\r\n")))
	require.Error(t, err)
	_, err = Parse(append([]byte{0xEF, 0xBB, 0xBF}, data...))
	require.Error(t, err)
}

func TestParseMissingSpec(t *testing.T) {
	fp := fingerprint.FromKey(keyMaterial(1))
	_, err := Parse(doc(Preamble, "META", "Version: 1", "TRUST", "Fingerprint: "+fp.String(), "Role: r", Postamble))
	require.ErrorContains(t, err, "missing META Spec")
}

func TestParseInvalidFingerprintCarriesRuleID(t *testing.T) {
	_, err := Parse(doc(Preamble, "META", "Spec: "+SpecName, "TRUST",
		"Fingerprint: 0000000000-"+strings.Repeat("ab", fingerprint.HashSize), "Role: r", Postamble))
	require.Error(t, err)
	assert.True(t, fingerprint.IsKind(err, fingerprint.KindZeroAddress))
	assert.Equal(t, "FP-VAL-001", fingerprint.RuleID(err))
}

func TestDuplicateAddress(t *testing.T) {
	fp := fingerprint.FromKey(keyMaterial(1))
	other := fp
	other.Hash[0] ^= 0xff

	_, err := New(nil, []Entry{{Fingerprint: fp, Role: "a"}, {Fingerprint: other, Role: "b"}})
	require.ErrorIs(t, err, ErrDuplicateAddress)

	_, err = Parse(doc(Preamble, "META", "Spec: "+SpecName, "TRUST",
		"Fingerprint: "+fp.String(), "Role: a",
		"Fingerprint: "+other.String(), "Role: b",
		Postamble))
	require.ErrorIs(t, err, ErrDuplicateAddress)
}

func TestLookup(t *testing.T) {
	data, a, _ := twoEntryDoc(t)
	p, err := ParseStrict(data)
	require.NoError(t, err)

	e, ok := p.Lookup(a.Address)
	require.True(t, ok)
	assert.Equal(t, a, e.Fingerprint)

	_, ok = p.Lookup(fingerprint.FromKey(keyMaterial(9)).Address)
	assert.False(t, ok)
}

func TestAuthenticate(t *testing.T) {
	fp := fingerprint.FromKey(keyMaterial(1))
	p, err := New(map[string]string{"Spec": SpecName}, []Entry{{Fingerprint: fp, Role: "controller"}})
	require.NoError(t, err)

	e, err := p.Authenticate(keyMaterial(1))
	require.NoError(t, err)
	assert.Equal(t, "controller", e.Role)

	_, err = p.Authenticate(keyMaterial(2))
	require.ErrorIs(t, err, ErrUnknownAddress)
}

func TestAuthenticateMismatch(t *testing.T) {
	// Pin the right address with the wrong hash, as a colliding key would
	// present itself.
	fp := fingerprint.FromKey(keyMaterial(1))
	fp.Hash = fingerprint.HashKey(keyMaterial(2))
	p, err := New(nil, []Entry{{Fingerprint: fp, Role: "controller"}})
	require.NoError(t, err)

	_, err = p.Authenticate(keyMaterial(1))
	require.ErrorIs(t, err, ErrFingerprintMismatch)
	assert.False(t, errors.Is(err, ErrUnknownAddress))
}

func TestWith(t *testing.T) {
	a := fingerprint.FromKey(keyMaterial(1))
	b := fingerprint.FromKey(keyMaterial(2))
	p, err := New(map[string]string{"Spec": SpecName, "Version": "1"}, []Entry{{Fingerprint: a, Role: "x"}})
	require.NoError(t, err)

	q, err := p.With(Entry{Fingerprint: b, Role: "y"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 2, q.Len())

	_, err = q.With(Entry{Fingerprint: a, Role: "z"})
	require.ErrorIs(t, err, ErrDuplicateAddress)
}

func TestNewRejectsInvalidFingerprint(t *testing.T) {
	_, err := New(nil, []Entry{{Role: "x"}})
	require.Error(t, err)
	assert.True(t, fingerprint.IsKind(err, fingerprint.KindZeroAddress))
}

func TestMarshalJSON(t *testing.T) {
	fp := fingerprint.FromKey(keyMaterial(1))
	p, err := New(map[string]string{"Spec": SpecName}, []Entry{{Fingerprint: fp, Role: "controller"}})
	require.NoError(t, err)

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded struct {
		Meta    map[string]string `json:"meta"`
		Entries []Entry           `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, SpecName, decoded.Meta["Spec"])
	require.Len(t, decoded.Entries, 1)
	assert.Equal(t, fp, decoded.Entries[0].Fingerprint)
	assert.Contains(t, string(out), fp.String())
}

func TestNewRejectsUnrenderableMeta(t *testing.T) {
	cases := map[string]map[string]string{
		"empty value":         {"Note": ""},
		"value with newline":  {"Note": "a\nb"},
		"value with CR":       {"Note": "a\rb"},
		"trailing space":      {"Note": "a "},
		"leading space":       {"Note": " a"},
		"empty key":           {"": "x"},
		"key with newline":    {"Bad\nKey": "x"},
		"key with colon":      {"Bad:Key": "x"},
		"key with space":      {"Bad Key": "x"},
		"section name as key": {"TRUST": "x"},
		"foreign spec":        {"Spec": "something-else"},
	}
	for name, meta := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(meta, nil)
			require.Error(t, err)
		})
	}
}

func TestRenderParsesStrictForAcceptedPolicies(t *testing.T) {
	a := fingerprint.FromKey(keyMaterial(1))
	b := fingerprint.FromKey(keyMaterial(2))
	entries := []Entry{{Fingerprint: b, Role: "member"}, {Fingerprint: a, Role: "controller"}}

	metas := []map[string]string{
		nil,
		{},
		{"Spec": SpecName},
		{"Version": "7"},
		{"Note": "value: with colon"},
		{"Owner": "ops-team", "Issued": "2026-10-19", "Note": "pinned peers"},
	}
	for _, meta := range metas {
		for _, es := range [][]Entry{nil, entries[:1], entries} {
			p, err := New(meta, es)
			require.NoError(t, err)

			again, err := ParseStrict(p.Render())
			require.NoError(t, err, "meta %v, %d entries", meta, len(es))
			assert.Equal(t, p.Entries(), again.Entries())
			assert.Equal(t, string(p.Render()), string(again.Render()))
			for k, v := range meta {
				assert.Equal(t, v, again.Meta(k))
			}
		}
	}
}

func TestNewReportsCallerIndex(t *testing.T) {
	a := fingerprint.FromKey(keyMaterial(1))
	b := fingerprint.FromKey(keyMaterial(2))
	hi, lo := a, b
	if hi.Less(lo) {
		hi, lo = lo, hi
	}
	// The bad role sits at input index 0 but would sort to index 1.
	_, err := New(nil, []Entry{{Fingerprint: hi, Role: "bad role"}, {Fingerprint: lo, Role: "ok"}})
	require.ErrorContains(t, err, "entry 0")
}

func TestNewDefaultsSpecAndVersion(t *testing.T) {
	p, err := New(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, SpecName, p.Meta("Spec"))
	assert.Equal(t, "1", p.Meta("Version"))
}

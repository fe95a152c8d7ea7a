// Package trust implements peer-trust documents: lists of pinned node
// fingerprints, each with a role.
//
// A document looks like
//
//	-----BEGIN XDAO PEER TRUST-----
//	META
//	Spec: xdao-nodeid-trust-1
//	Version: 1
//
//	TRUST
//	Fingerprint: 0102030405-0001...2f
//	Role: controller
//	-----END XDAO PEER TRUST-----
//
// A parsed Policy is immutable and safe for concurrent use.
package trust

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"xdao.co/nodeid/address"
	"xdao.co/nodeid/compliance"
	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/keys"
)

const (
	Preamble  = "-----BEGIN XDAO PEER TRUST-----"
	Postamble = "-----END XDAO PEER TRUST-----"

	// SpecName is the required META Spec value.
	SpecName = "xdao-nodeid-trust-1"
)

var (
	ErrUnknownAddress      = errors.New("trust: no fingerprint pinned for address")
	ErrFingerprintMismatch = errors.New("trust: key does not match pinned fingerprint")
	ErrDuplicateAddress    = errors.New("trust: address pinned more than once")
)

// Entry pins one fingerprint.
type Entry struct {
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	Role        string                  `json:"role"`
}

// Policy is a parsed peer-trust document.
type Policy struct {
	meta    map[string]string
	entries []Entry
	byAddr  map[address.Address]int
}

// New builds a policy from META pairs and entries. Entries are validated and
// sorted by fingerprint; an address may be pinned only once. META pairs must
// render as "Key: Value" lines. Spec and Version default to SpecName and
// "1", so Render always yields a document ParseStrict accepts.
func New(meta map[string]string, entries []Entry) (*Policy, error) {
	for k, v := range meta {
		if err := checkMeta(k, v); err != nil {
			return nil, err
		}
	}
	if spec, ok := meta["Spec"]; ok && spec != SpecName {
		return nil, fmt.Errorf("trust: unsupported META Spec %q", spec)
	}
	for i, e := range entries {
		if err := e.Fingerprint.Validate(); err != nil {
			return nil, fmt.Errorf("trust: entry %d: %w", i, err)
		}
		if err := keys.CheckRole(e.Role); err != nil {
			return nil, fmt.Errorf("trust: entry %d: %w", i, err)
		}
	}

	p := &Policy{
		meta:    make(map[string]string, len(meta)),
		entries: append([]Entry(nil), entries...),
		byAddr:  make(map[address.Address]int, len(entries)),
	}
	p.meta["Spec"] = SpecName
	p.meta["Version"] = "1"
	for k, v := range meta {
		p.meta[k] = v
	}
	sort.SliceStable(p.entries, func(i, j int) bool {
		return p.entries[i].Fingerprint.Less(p.entries[j].Fingerprint)
	})
	for i, e := range p.entries {
		if _, dup := p.byAddr[e.Fingerprint.Address]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAddress, e.Fingerprint.Address)
		}
		p.byAddr[e.Fingerprint.Address] = i
	}
	return p, nil
}

func checkMeta(key, value string) error {
	switch {
	case key == "":
		return errors.New("trust: empty META key")
	case key == "META" || key == "TRUST":
		return fmt.Errorf("trust: META key %q is a section name", key)
	case strings.ContainsAny(key, ":\n\r \t"):
		return fmt.Errorf("trust: invalid META key %q", key)
	case value == "":
		return fmt.Errorf("trust: empty META value for %q", key)
	case strings.ContainsAny(value, "\n\r"):
		return fmt.Errorf("trust: META value for %q spans lines", key)
	case strings.TrimSpace(value) != value:
		return fmt.Errorf("trust: META value for %q has surrounding whitespace", key)
	}
	return nil
}

// Meta returns a META value.
func (p *Policy) Meta(key string) string { return p.meta[key] }

// Entries returns the pinned entries in fingerprint order.
func (p *Policy) Entries() []Entry { return append([]Entry(nil), p.entries...) }

// Len returns the number of pinned entries.
func (p *Policy) Len() int { return len(p.entries) }

// Lookup returns the entry pinned for addr.
func (p *Policy) Lookup(addr address.Address) (Entry, bool) {
	i, ok := p.byAddr[addr]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Authenticate checks presented key material against the pinned fingerprint
// for its address. A key whose address is pinned but whose hash differs is
// reported as ErrFingerprintMismatch: it collides with, or impersonates, the
// pinned identity.
func (p *Policy) Authenticate(material []byte) (Entry, error) {
	addr := address.Derive(material)
	e, ok := p.Lookup(addr)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownAddress, addr)
	}
	if !e.Fingerprint.VerifyAgainst(material) {
		return Entry{}, fmt.Errorf("%w: %s", ErrFingerprintMismatch, e.Fingerprint)
	}
	return e, nil
}

// With returns a copy of p with e added.
func (p *Policy) With(e Entry) (*Policy, error) {
	return New(p.meta, append(p.Entries(), e))
}

// Render returns the canonical document bytes (no trailing newline).
func (p *Policy) Render() []byte {
	var b bytes.Buffer
	b.WriteString(Preamble + "\n")
	b.WriteString("META\n")
	metaKeys := make([]string, 0, len(p.meta))
	for k := range p.meta {
		metaKeys = append(metaKeys, k)
	}
	sort.Strings(metaKeys)
	for _, k := range metaKeys {
		b.WriteString(k + ": " + p.meta[k] + "\n")
	}
	b.WriteString("\nTRUST\n")
	for _, e := range p.entries {
		b.WriteString("Fingerprint: " + e.Fingerprint.String() + "\n")
		b.WriteString("Role: " + e.Role + "\n")
	}
	b.WriteString(Postamble)
	return b.Bytes()
}

type policyJSON struct {
	Meta    map[string]string `json:"meta,omitempty"`
	Entries []Entry           `json:"entries"`
}

// MarshalJSON encodes the policy with fingerprints in their text form.
func (p *Policy) MarshalJSON() ([]byte, error) {
	entries := p.entries
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(policyJSON{Meta: p.meta, Entries: entries})
}

// Parse parses a trust document permissively.
func Parse(data []byte) (*Policy, error) {
	return ParseWithCompliance(data, compliance.Permissive)
}

// ParseStrict parses a trust document in strict mode: no trailing newline,
// META Version required, canonical fingerprints in sorted order.
func ParseStrict(data []byte) (*Policy, error) {
	return ParseWithCompliance(data, compliance.Strict)
}

// ParseWithCompliance parses a trust document under mode.
func ParseWithCompliance(data []byte, mode compliance.ComplianceMode) (*Policy, error) {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, errors.New("trust: BOM not allowed")
	}
	if bytes.Contains(data, []byte("\r")) {
		return nil, errors.New("trust: CR line endings not allowed")
	}

	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		if mode == compliance.Strict {
			return nil, errors.New("trust: trailing newline not allowed")
		}
		lines = lines[:n-1]
	}
	for i, line := range lines {
		if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
			return nil, fmt.Errorf("trust: line %d: trailing whitespace forbidden", i+1)
		}
	}
	if lines[0] != Preamble {
		return nil, errors.New("trust: missing preamble")
	}
	if len(lines) < 2 || lines[len(lines)-1] != Postamble {
		return nil, errors.New("trust: missing postamble")
	}

	meta := make(map[string]string)
	var entries []Entry
	var section string
	body := lines[1 : len(lines)-1]
	for i := 0; i < len(body); i++ {
		line, lineNo := body[i], i+2
		switch line {
		case "":
			continue
		case "META", "TRUST":
			section = line
			continue
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			return nil, fmt.Errorf("trust: line %d: expected \"Key: Value\"", lineNo)
		}
		switch section {
		case "META":
			if _, dup := meta[key]; dup {
				return nil, fmt.Errorf("trust: line %d: duplicate META key %q", lineNo, key)
			}
			meta[key] = value
		case "TRUST":
			if key != "Fingerprint" {
				return nil, fmt.Errorf("trust: line %d: expected Fingerprint, got %q", lineNo, key)
			}
			fp, err := fingerprint.ParseWithCompliance(value, mode)
			if err != nil {
				return nil, fmt.Errorf("trust: line %d: %w", lineNo, err)
			}
			if i+1 >= len(body) {
				return nil, fmt.Errorf("trust: line %d: expected Role after Fingerprint", lineNo)
			}
			roleKey, role, ok := strings.Cut(body[i+1], ": ")
			if !ok || roleKey != "Role" {
				return nil, fmt.Errorf("trust: line %d: expected Role after Fingerprint", lineNo+1)
			}
			if mode == compliance.Strict && len(entries) > 0 && !entries[len(entries)-1].Fingerprint.Less(fp) {
				return nil, fmt.Errorf("trust: line %d: entries must be sorted by fingerprint", lineNo)
			}
			entries = append(entries, Entry{Fingerprint: fp, Role: role})
			i++
		default:
			return nil, fmt.Errorf("trust: line %d: content outside of a section", lineNo)
		}
	}

	switch spec := meta["Spec"]; spec {
	case SpecName:
	case "":
		return nil, errors.New("trust: missing META Spec")
	default:
		return nil, fmt.Errorf("trust: unsupported META Spec %q", spec)
	}
	if mode == compliance.Strict && meta["Version"] == "" {
		return nil, errors.New("trust: strict mode requires META Version")
	}
	return New(meta, entries)
}

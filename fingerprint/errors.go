package fingerprint

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindMalformed       Kind = "MalformedStructure"
	KindInvalidHex      Kind = "InvalidHex"
	KindZeroAddress     Kind = "ZeroAddress"
	KindZeroHash        Kind = "ZeroHash"
	KindReservedAddress Kind = "ReservedAddress"
	KindCanonical       Kind = "Canonical"
	KindEncode          Kind = "EncodeFault"
	KindInternal        Kind = "Internal"
)

// Field names used in Error.Field.
const (
	FieldAddress = "address"
	FieldHash    = "hash"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. FP-STR-001, FP-HEX-002) naming the
// violated rule. Field names the offending field when one applies. Input
// holds the text that failed to parse, for diagnostics.
type Error struct {
	Kind    Kind
	RuleID  string
	Field   string
	Input   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Input == "" {
		return "fingerprint: " + e.Message
	}
	return fmt.Sprintf("fingerprint: %s (input %q)", e.Message, e.Input)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID, field, msg string) *Error {
	return &Error{Kind: kind, RuleID: ruleID, Field: field, Message: msg}
}

func wrapError(kind Kind, ruleID, field, msg string, cause error) *Error {
	return &Error{Kind: kind, RuleID: ruleID, Field: field, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

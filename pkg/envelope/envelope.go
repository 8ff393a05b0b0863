// Package envelope implements the checksum wrapper protecting payload
// integrity.
//
// The on-wire shape is a JSON object with exactly two semantic fields:
//
//	{"hash": "<sha256 hex of text>", "text": "<original text>"}
//
// This schema must remain stable across versions: images produced by older
// releases (and by the original service) decode against it. Payloads that do
// not match the shape are treated as legacy plaintext rather than rejected,
// so pre-envelope images keep decoding.
package envelope

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// Kind discriminates the two parse variants of Unwrap.
type Kind int

const (
	// KindEnvelope means the payload matched the {hash, text} schema and
	// verified cleanly.
	KindEnvelope Kind = iota

	// KindLegacy means the payload did not match the schema and was passed
	// through as plain text. Legacy payloads carry no hash.
	KindLegacy
)

// Unwrapped is the result of parsing a payload with Unwrap.
type Unwrapped struct {
	Kind Kind
	Text string
	Hash string // empty for KindLegacy
}

// wire is the JSON shape of the envelope.
type wire struct {
	Hash string `json:"hash"`
	Text string `json:"text"`
}

// Hash returns the lowercase SHA-256 hex digest of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Wrap serializes text together with its SHA-256 digest.
func Wrap(text string) string {
	// Marshal of a flat struct with string fields cannot fail.
	b, _ := json.Marshal(wire{Hash: Hash(text), Text: text})
	return string(b)
}

// Unwrap parses payload as a checksum envelope.
//
// Selection between the two variants is structural, not error-driven: the
// payload must be a JSON object whose "hash" and "text" members are both
// strings. Anything else (invalid JSON, arrays, numbers, objects missing a
// field) is legacy plaintext and returned unchanged with no error.
//
// A payload that matches the schema but whose recomputed digest disagrees
// with the stored hash fails with an IntegrityError carrying the stored
// hash; this is a hard failure, never a silent correction.
func Unwrap(payload string) (Unwrapped, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return Unwrapped{Kind: KindLegacy, Text: payload}, nil
	}

	var stored, text string
	if raw, ok := fields["hash"]; !ok || json.Unmarshal(raw, &stored) != nil {
		return Unwrapped{Kind: KindLegacy, Text: payload}, nil
	}
	if raw, ok := fields["text"]; !ok || json.Unmarshal(raw, &text) != nil {
		return Unwrapped{Kind: KindLegacy, Text: payload}, nil
	}

	if Hash(text) != stored {
		return Unwrapped{}, &qrerrors.IntegrityError{StoredHash: stored}
	}
	return Unwrapped{Kind: KindEnvelope, Text: text, Hash: stored}, nil
}

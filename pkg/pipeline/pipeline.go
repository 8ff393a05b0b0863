// Package pipeline provides the complete encode/decode pipeline for
// QRMosaic, shared by the CLI and the HTTP API so both entry points behave
// identically.
//
// # Architecture
//
// Encoding runs wrap → encrypt → chunk → frame → render → label → tile:
//
//  1. Wrap the cleartext in a SHA-256 checksum envelope
//  2. Optionally encrypt the envelope under a passphrase (Fernet)
//  3. Split the payload into fixed-size fragments
//  4. Serialize each fragment as one frame string
//  5. Render each frame as a QR symbol, stamp its index label
//  6. Compose all symbols into one PNG
//
// Decoding runs the stages in reverse: scan → reassemble → decrypt →
// verify. Each call is a pure function of its inputs; nothing is cached or
// shared between calls, so concurrent calls need no locking.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	png, err := runner.Encode(ctx, "hello world", pipeline.Options{ChunkSize: 500})
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Decode(ctx, png, "")
package pipeline

import (
	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultChunkSize is the default fragment size in runes. Frames of this
	// size fit comfortably in a version-capped QR symbol at level Q.
	DefaultChunkSize = 500
)

// =============================================================================
// Options - Encode Configuration
// =============================================================================

// Options contains all configuration for an encode call.
// This struct supports JSON serialization for API requests.
type Options struct {
	// ChunkSize is the maximum fragment length in runes. It must be
	// positive: entry points that want a default apply DefaultChunkSize
	// before calling Encode, so an explicit zero is still rejected.
	ChunkSize int `json:"chunk_size,omitempty"`

	// Passphrase enables Fernet encryption of the payload when non-empty.
	// It is never stored; only a derived key is used for the call.
	Passphrase string `json:"passphrase,omitempty"`

	// NoLabels suppresses the human-readable "index/total" label under each
	// symbol. Labels are purely visual and do not affect decoding.
	NoLabels bool `json:"no_labels,omitempty"`
}

// Validate checks the options. Non-positive chunk sizes are rejected even
// when they came from a zero value.
func (o *Options) Validate() error {
	return qrerrors.ValidateChunkSize(o.ChunkSize)
}

// =============================================================================
// Result - Decode Output
// =============================================================================

// Result contains the outputs of a successful decode.
type Result struct {
	// Text is the recovered cleartext.
	Text string

	// SHA256 is the verified hex digest from the checksum envelope. Empty
	// for legacy payloads that carried no envelope.
	SHA256 string
}

// Package errors provides structured error types for the QRMosaic application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each code maps to one failure class of the codec:
//   - VALIDATION: bad caller input (empty text, non-positive chunk size)
//   - INVALID_IMAGE: uploaded bytes are not a decodable raster image
//   - SCAN_FAILED: no QR symbols found, or none parses as a valid frame
//   - MISSING_CHUNKS: the scanned message is incomplete
//   - DECRYPTION_FAILED: wrong passphrase or corrupted ciphertext
//   - INTEGRITY_MISMATCH: checksum disagreement after successful decryption
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "chunk size must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImage, origErr, "decode uploaded image")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure classes of the codec.
const (
	// Input validation errors
	ErrCodeValidation Code = "VALIDATION"

	// Decode-side errors, in pipeline order
	ErrCodeImage         Code = "INVALID_IMAGE"
	ErrCodeScan          Code = "SCAN_FAILED"
	ErrCodeMissingChunks Code = "MISSING_CHUNKS"
	ErrCodeDecryption    Code = "DECRYPTION_FAILED"
	ErrCodeIntegrity     Code = "INTEGRITY_MISMATCH"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by typed errors that carry their own code.
type coded interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no code is attached anywhere in the chain.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// MissingChunksError reports an incomplete scanned message.
// Indices holds the absent fragment indices, sorted ascending.
type MissingChunksError struct {
	Indices []int
}

// Error implements the error interface.
func (e *MissingChunksError) Error() string {
	parts := make([]string, len(e.Indices))
	for i, idx := range e.Indices {
		parts[i] = fmt.Sprint(idx)
	}
	return fmt.Sprintf("missing QR chunks: [%s]", strings.Join(parts, ", "))
}

// Code returns the error code for this error type.
func (e *MissingChunksError) Code() Code {
	return ErrCodeMissingChunks
}

// IntegrityError reports a checksum mismatch after successful decryption.
// StoredHash is the (untrusted) hash recorded in the envelope, kept for
// diagnostics even though verification failed.
type IntegrityError struct {
	StoredHash string
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	return "integrity check failed (SHA-256 mismatch)"
}

// Code returns the error code for this error type.
func (e *IntegrityError) Code() Code {
	return ErrCodeIntegrity
}

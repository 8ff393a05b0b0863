package errors

// MaxTextLength caps encode input size. QR capacity makes very large inputs
// impractical anyway; the cap keeps the HTTP layer from rendering unbounded
// symbol grids.
const MaxTextLength = 1 << 20

// ValidateText validates the cleartext supplied to an encode call.
// Only the empty string is invalid: whitespace-only text is real content and
// must round-trip like any other.
func ValidateText(text string) error {
	if text == "" {
		return New(ErrCodeValidation, "text to encode cannot be empty")
	}
	if len(text) > MaxTextLength {
		return New(ErrCodeValidation, "text too long (max %d bytes)", MaxTextLength)
	}
	return nil
}

// ValidateChunkSize validates the fragment size for an encode call.
func ValidateChunkSize(size int) error {
	if size <= 0 {
		return New(ErrCodeValidation, "chunk size must be positive, got %d", size)
	}
	return nil
}

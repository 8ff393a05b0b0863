package wire

import qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"

// Chunk splits payload into contiguous slices of at most size characters;
// the final slice may be shorter. Slicing is by rune so multi-byte text is
// never cut mid-character; the payload at this point is already wrapped and
// possibly encrypted, so its internal structure is irrelevant here.
//
// size must be positive, otherwise Chunk fails with a validation error.
func Chunk(payload string, size int) ([]string, error) {
	if err := qrerrors.ValidateChunkSize(size); err != nil {
		return nil, err
	}
	runes := []rune(payload)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

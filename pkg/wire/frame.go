// Package wire implements the frame protocol carried inside each QR symbol:
// splitting a payload into fragments, tagging each fragment with its message
// identity, and regrouping scanned frames back into the payload.
//
// # Frame format
//
// One frame is a single delimited string, suitable for one QR symbol:
//
//	message_id|index|total|fragment_text
//
// The separator is reserved only for the first three cuts; parsing splits at
// most three times, so separator characters inside fragment_text (common in
// JSON and base64-free plaintext) survive verbatim.
package wire

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Separator joins the four frame fields.
const Separator = "|"

// messageIDLen is the length of the short hex message identifier.
// Eight hex chars give 32 bits of randomness, which is plenty: a collision
// only risks cross-talk between messages mixed into one scanned image, and
// reassembly reads a single message per image anyway.
const messageIDLen = 8

// Frame is the parsed form of one scanned symbol string.
type Frame struct {
	MsgID string
	Index int
	Total int
	Text  string
}

// NewMessageID returns a fresh short random message identifier.
// A new one is generated per encode invocation; there is no process-wide
// counter or seed state.
func NewMessageID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:messageIDLen]
}

// EncodeFrame serializes one fragment plus its message context.
func EncodeFrame(msgID string, index, total int, text string) string {
	return fmt.Sprintf("%s%s%d%s%d%s%s", msgID, Separator, index, Separator, total, Separator, text)
}

// ParseFrame attempts to parse a scanned string as a frame.
//
// The result is optional by design: a stray or foreign QR symbol in the same
// shot must not abort the whole decode, so callers collect successes and
// skip failures. A string fails to parse when it does not have four
// separator-delimited fields or when index/total are not non-negative
// integers.
func ParseFrame(s string) (Frame, bool) {
	parts := strings.SplitN(s, Separator, 4)
	if len(parts) != 4 {
		return Frame{}, false
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return Frame{}, false
	}
	total, err := strconv.Atoi(parts[2])
	if err != nil || total < 0 {
		return Frame{}, false
	}
	return Frame{MsgID: parts[0], Index: index, Total: total, Text: parts[3]}, true
}

package wire

import (
	"sort"
	"strings"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// Reassemble regroups scanned symbol strings into the original payload.
//
// Every string is attempted as a frame and parse failures are discarded; if
// nothing parses the scan is rejected as a whole. Frames are then grouped by
// message id, and only the first id encountered is processed: the system
// supports exactly one message per image, so a second id in the same shot is
// ignored, not merged or reported. The fragment count is taken from the
// first frame seen for that id. Exact duplicate frames for an index (a
// scanner may detect the same symbol twice) are tolerated.
//
// Reassemble fails with a MissingChunksError naming the absent indices when
// any index in [0, total) is unaccounted for.
func Reassemble(scanned []string) (string, error) {
	var (
		msgID string
		total int
		parts map[int]string
	)
	for _, s := range scanned {
		frame, ok := ParseFrame(s)
		if !ok {
			continue
		}
		if parts == nil {
			msgID = frame.MsgID
			total = frame.Total
			parts = make(map[int]string, total)
		}
		if frame.MsgID != msgID {
			continue
		}
		parts[frame.Index] = frame.Text
	}
	if parts == nil {
		return "", qrerrors.New(qrerrors.ErrCodeScan, "invalid QR format")
	}

	var missing []int
	for i := 0; i < total; i++ {
		if _, ok := parts[i]; !ok {
			missing = append(missing, i)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		return "", &qrerrors.MissingChunksError{Indices: missing}
	}

	var sb strings.Builder
	for i := 0; i < total; i++ {
		sb.WriteString(parts[i])
	}
	return sb.String(), nil
}

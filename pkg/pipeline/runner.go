package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"

	// Uploaded rasters are decoded via image.Decode; PNG is the native
	// output format and JPEG covers phone screenshots of QR sheets.
	_ "image/jpeg"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qrmosaic/pkg/crypt"
	"github.com/matzehuels/qrmosaic/pkg/envelope"
	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/qr"
	"github.com/matzehuels/qrmosaic/pkg/tile"
	"github.com/matzehuels/qrmosaic/pkg/wire"
)

// Runner executes the encode/decode pipeline. It holds no per-call state:
// the renderer and scanner are stateless collaborators, so a single Runner
// is safe for concurrent use.
type Runner struct {
	renderer qr.Renderer
	scanner  qr.Scanner
	logger   *log.Logger
}

// NewRunner creates a pipeline runner. Nil arguments select the default QR
// renderer, the default scanner, and the default logger respectively.
func NewRunner(renderer qr.Renderer, scanner qr.Scanner, logger *log.Logger) *Runner {
	if renderer == nil {
		renderer = qr.SymbolRenderer{}
	}
	if scanner == nil {
		scanner = qr.ImageScanner{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{renderer: renderer, scanner: scanner, logger: logger}
}

// Encode turns text into a PNG of tiled QR symbols.
//
// Any failure blocks image generation entirely; there is no partial output.
// Empty text and non-positive chunk sizes fail with a validation error
// before any work is done.
func (r *Runner) Encode(ctx context.Context, text string, opts Options) ([]byte, error) {
	if err := qrerrors.ValidateText(text); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	wrapped := envelope.Wrap(text)
	payload, err := crypt.Encrypt(wrapped, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	chunks, err := wire.Chunk(payload, opts.ChunkSize)
	if err != nil {
		return nil, err
	}

	msgID := wire.NewMessageID()
	total := len(chunks)
	r.logger.Debug("encoding message", "id", msgID, "frames", total, "chunk_size", opts.ChunkSize)

	images := make([]image.Image, 0, total)
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := r.renderer.Render(wire.EncodeFrame(msgID, i, total, chunk))
		if err != nil {
			return nil, err
		}
		if !opts.NoLabels {
			if img, err = tile.Label(img, i, total); err != nil {
				return nil, err
			}
		}
		images = append(images, img)
	}

	sheet, err := tile.Compose(images)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeInternal, err, "encode PNG")
	}
	return buf.Bytes(), nil
}

// Decode recovers the original text from a raster of QR symbols.
//
// On failure no text is returned; when the checksum layer recovered a stored
// hash before verification failed, the IntegrityError in the chain carries
// it for diagnostics.
func (r *Runner) Decode(ctx context.Context, data []byte, passphrase string) (Result, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "invalid image")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	scanned, err := r.scanner.Scan(img)
	if err != nil {
		return Result{}, err
	}
	if len(scanned) == 0 {
		return Result{}, qrerrors.New(qrerrors.ErrCodeScan, "no QR codes found")
	}
	r.logger.Debug("scanned image", "symbols", len(scanned))

	payload, err := wire.Reassemble(scanned)
	if err != nil {
		return Result{}, err
	}
	wrapped, err := crypt.Decrypt(payload, passphrase)
	if err != nil {
		return Result{}, err
	}
	unwrapped, err := envelope.Unwrap(wrapped)
	if err != nil {
		return Result{}, err
	}

	r.logger.Debug("decoded message", "bytes", len(unwrapped.Text), "checksum", unwrapped.Hash != "")
	return Result{Text: unwrapped.Text, SHA256: unwrapped.Hash}, nil
}

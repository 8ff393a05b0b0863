package qr

import (
	"image"

	qrcode "github.com/skip2/go-qrcode"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// DefaultModuleSize is the rendered width of one QR module in pixels.
const DefaultModuleSize = 10

// SymbolRenderer renders frames as QR symbols at error-correction level Q
// (~25% recovery), with a standard four-module quiet zone.
//
// Level Q leaves headroom for the print-and-rescan cycle these images go
// through while keeping symbol density manageable at the default 500-rune
// chunk size.
type SymbolRenderer struct {
	// ModuleSize is the pixel width of one module; zero means
	// DefaultModuleSize.
	ModuleSize int
}

// Render implements Renderer.
func (r SymbolRenderer) Render(frame string) (image.Image, error) {
	code, err := qrcode.New(frame, qrcode.High)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeValidation, err, "frame does not fit in a QR symbol")
	}
	size := r.ModuleSize
	if size <= 0 {
		size = DefaultModuleSize
	}
	// Negative size scales each module to |size| pixels instead of fitting
	// a fixed image width.
	return code.Image(-size), nil
}

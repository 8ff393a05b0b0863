// Package tile arranges per-symbol QR images into a single raster.
//
// Layout is purely visual packaging: symbols are stamped with a
// human-readable "index/total" label and placed on a near-square grid, but
// tile position carries no meaning for decode. The scanner returns symbols
// in arbitrary order and reassembly relies only on frame metadata.
package tile

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/fonts"
)

// minLabelHeight keeps labels legible under very small symbols.
const minLabelHeight = 24

// LabelHeight returns the height of the label strip appended below a symbol
// of the given height.
func LabelHeight(symbolHeight int) int {
	h := symbolHeight / 6
	if h < minLabelHeight {
		h = minLabelHeight
	}
	return h
}

// Label stamps an "index+1/total" label centered in a white strip below the
// symbol. The symbol's own pixels, including its quiet zone, are copied
// unmodified so the scannable region is untouched.
func Label(img image.Image, index, total int) (image.Image, error) {
	face, err := fonts.LabelFace()
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeInternal, err, "load label font")
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	labelH := LabelHeight(h)

	dc := gg.NewContext(w, h+labelH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)

	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(
		fmt.Sprintf("%d/%d", index+1, total),
		float64(w)/2,
		float64(h)+float64(labelH)/2,
		0.5, 0.5,
	)
	return dc.Image(), nil
}

// Grid returns the column and row counts for laying out n tiles on a
// near-square grid: cols = ceil(sqrt(n)), rows = ceil(n/cols).
func Grid(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// Compose places the images left-to-right, top-to-bottom on a uniform white
// grid. Every cell is sized to the maximum width and height across all
// images, so mixed symbol sizes stay aligned.
func Compose(images []image.Image) (image.Image, error) {
	if len(images) == 0 {
		return nil, qrerrors.New(qrerrors.ErrCodeValidation, "no images to tile")
	}

	var maxW, maxH int
	for _, img := range images {
		if w := img.Bounds().Dx(); w > maxW {
			maxW = w
		}
		if h := img.Bounds().Dy(); h > maxH {
			maxH = h
		}
	}

	cols, rows := Grid(len(images))
	dc := gg.NewContext(cols*maxW, rows*maxH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, img := range images {
		row, col := i/cols, i%cols
		bounds := img.Bounds()
		dc.DrawImage(img, col*maxW-bounds.Min.X, row*maxH-bounds.Min.Y)
	}
	return dc.Image(), nil
}

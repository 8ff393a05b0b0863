// Package fonts provides the typeface used for index labels under QR
// symbols.
//
// The Go Regular font ships embedded in golang.org/x/image, so labels render
// identically everywhere without external font files or fontconfig lookups.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelSize is the point size for index labels.
const LabelSize = 14

var (
	labelFace     font.Face
	labelFaceErr  error
	labelFaceOnce sync.Once
)

// LabelFace returns the shared face for index labels.
// The face is parsed once on first access and reused; font.Face drawing via
// a fresh drawing context per image is safe for the codec's synchronous,
// call-scoped rendering.
func LabelFace() (font.Face, error) {
	labelFaceOnce.Do(func() {
		ft, err := opentype.Parse(goregular.TTF)
		if err != nil {
			labelFaceErr = fmt.Errorf("parse embedded label font: %w", err)
			return
		}
		labelFace, labelFaceErr = opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    LabelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return labelFace, labelFaceErr
}

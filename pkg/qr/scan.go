package qr

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

// ImageScanner detects and decodes every QR symbol in an image using the
// zxing multi-symbol QR reader.
type ImageScanner struct{}

// Scan implements Scanner. An image containing no detectable symbols yields
// an empty slice and no error; the caller decides whether that is fatal.
func (ImageScanner) Scan(img image.Image) ([]string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, qrerrors.Wrap(qrerrors.ErrCodeImage, err, "prepare image for scanning")
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	results, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, hints)
	if err != nil {
		if _, ok := err.(gozxing.NotFoundException); ok {
			return nil, nil
		}
		return nil, qrerrors.Wrap(qrerrors.ErrCodeScan, err, "scan QR symbols")
	}

	decoded := make([]string, 0, len(results))
	for _, res := range results {
		decoded = append(decoded, res.GetText())
	}
	return decoded, nil
}

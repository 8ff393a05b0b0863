// Package qr provides the symbol renderer and scanner contracts the codec
// depends on, plus default implementations backed by skip2/go-qrcode and
// makiuchi-d/gozxing.
//
// The codec itself never inspects symbol imagery; it only requires that a
// rendered frame string round-trips through a scanner. Both contracts are
// interfaces so tests and alternative backends can substitute their own.
package qr

import "image"

// Renderer turns one frame string into a scannable symbol image.
type Renderer interface {
	Render(frame string) (image.Image, error)
}

// Scanner extracts every decoded symbol string from a raster image.
//
// Order and multiplicity are unspecified: duplicates are possible when a
// symbol is detected more than once, and "nothing found" is an empty slice
// rather than an error.
type Scanner interface {
	Scan(img image.Image) ([]string, error)
}

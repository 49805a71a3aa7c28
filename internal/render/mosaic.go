package render

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
)

// MosaicBlockSize is the edge length of one mosaic block.
const MosaicBlockSize = 10

// mosaicPalette holds the block colors a redaction draws from.
var mosaicPalette = []color.RGBA{
	{0x33, 0x33, 0x33, 0xFF},
	{0x66, 0x66, 0x66, 0xFF},
	{0x99, 0x99, 0x99, 0xFF},
	{0xCC, 0xCC, 0xCC, 0xFF},
}

// Mosaic obscures rect with a grid of MosaicBlockSize blocks, each filled
// with a palette color chosen at random. The result is intentionally not
// reproducible between calls.
func Mosaic(img *image.RGBA, rect image.Rectangle) {
	rect = rect.Canon().Intersect(img.Bounds())
	if rect.Empty() {
		return
	}
	for y := rect.Min.Y; y < rect.Max.Y; y += MosaicBlockSize {
		for x := rect.Min.X; x < rect.Max.X; x += MosaicBlockSize {
			block := image.Rect(x, y, x+MosaicBlockSize, y+MosaicBlockSize).Intersect(rect)
			col := mosaicPalette[rand.IntN(len(mosaicPalette))]
			draw.Draw(img, block, &image.Uniform{col}, image.Point{}, draw.Src)
		}
	}
}

// IsMosaicColor reports whether c is one of the mosaic palette colors.
// Used by tests to verify a region was redacted.
func IsMosaicColor(c color.RGBA) bool {
	for _, p := range mosaicPalette {
		if c == p {
			return true
		}
	}
	return false
}

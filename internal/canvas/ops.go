package canvas

import (
	"image"
	"image/color"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/redactshot/internal/render"
)

// Style is the pen applied to the next operation. It never alters strokes
// already committed.
type Style struct {
	Color color.RGBA
	Width int
}

// dashLength is the on/off run of the dashed-line tool.
const dashLength = 4

// Op is one drawing operation. The variant set is closed; each variant
// carries exactly the parameters its geometry needs.
type Op interface{ isOp() }

// RectOp strokes the rectangle spanned by two corner points.
type RectOp struct{ Start, End image.Point }

// EllipseOp strokes the ellipse inscribed in the two-corner bounding box.
type EllipseOp struct{ Start, End image.Point }

// LineOp draws a straight segment.
type LineOp struct{ Start, End image.Point }

// DashedOp draws a dashed segment.
type DashedOp struct{ Start, End image.Point }

// ArrowOp draws a segment with a filled head at End.
type ArrowOp struct{ Start, End image.Point }

// PenOp draws a freehand polyline through sampled pointer positions.
type PenOp struct{ Points []image.Point }

// TextOp renders a string at a point in the style color.
type TextOp struct {
	At    image.Point
	Value string
}

// MosaicOp pixelates the region with random palette blocks.
type MosaicOp struct{ Region image.Rectangle }

func (RectOp) isOp()    {}
func (EllipseOp) isOp() {}
func (LineOp) isOp()    {}
func (DashedOp) isOp()  {}
func (ArrowOp) isOp()   {}
func (PenOp) isOp()     {}
func (TextOp) isOp()    {}
func (MosaicOp) isOp()  {}

// drawOp renders a single operation onto dst. This is the one place tool
// kinds are dispatched.
func drawOp(dst *image.RGBA, op Op, st Style) {
	switch op := op.(type) {
	case RectOp:
		render.Rect(dst, image.Rectangle{Min: op.Start, Max: op.End}.Canon(), st.Color, st.Width)
	case EllipseOp:
		render.Ellipse(dst, image.Rectangle{Min: op.Start, Max: op.End}.Canon(), st.Color, st.Width)
	case LineOp:
		render.Line(dst, op.Start, op.End, st.Color, st.Width)
	case DashedOp:
		render.DashedLine(dst, op.Start, op.End, st.Color, st.Width, dashLength)
	case ArrowOp:
		render.Arrow(dst, op.Start, op.End, st.Color, st.Width)
	case PenOp:
		render.Polyline(dst, op.Points, st.Color, st.Width)
	case TextOp:
		drawText(dst, op.At, op.Value, st.Color)
	case MosaicOp:
		render.Mosaic(dst, op.Region)
	}
}

// degenerate reports ops whose input is too small to draw anything. These
// are discarded silently rather than committed as empty history entries.
func degenerate(op Op) bool {
	switch op := op.(type) {
	case ArrowOp:
		return op.Start == op.End
	case PenOp:
		return len(op.Points) < 2
	case TextOp:
		return op.Value == ""
	case MosaicOp:
		return op.Region.Canon().Empty()
	}
	return false
}

var textFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	textFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 16, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

func drawText(dst *image.RGBA, at image.Point, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: textFace,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(text)
}

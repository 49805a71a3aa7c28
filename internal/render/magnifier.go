package render

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Magnifier describes the zoom lens shown next to the pointer while no
// selection drag is active.
type Magnifier struct {
	Size int // edge length of the lens on screen, in pixels
	Zoom int // magnification factor
}

// DefaultMagnifier matches the configuration defaults.
var DefaultMagnifier = Magnifier{Size: 150, Zoom: 4}

// magnifierMargin is the gap between the pointer and the lens frame.
const magnifierMargin = 20

func (m Magnifier) sourceSize() int {
	z := m.Zoom
	if z < 1 {
		z = 1
	}
	return m.Size / z
}

// SourceRect returns the region of the capture sampled under the pointer.
// The rectangle is shifted so that all of it lies within bounds, so the lens
// never samples outside the capture.
func (m Magnifier) SourceRect(pointer image.Point, bounds image.Rectangle) image.Rectangle {
	size := m.sourceSize()
	r := image.Rect(
		pointer.X-size/2,
		pointer.Y-size/2,
		pointer.X-size/2+size,
		pointer.Y-size/2+size,
	)
	if dx := bounds.Min.X - r.Min.X; dx > 0 {
		r = r.Add(image.Pt(dx, 0))
	}
	if dy := bounds.Min.Y - r.Min.Y; dy > 0 {
		r = r.Add(image.Pt(0, dy))
	}
	if dx := r.Max.X - bounds.Max.X; dx > 0 {
		r = r.Add(image.Pt(-dx, 0))
	}
	if dy := r.Max.Y - bounds.Max.Y; dy > 0 {
		r = r.Add(image.Pt(0, -dy))
	}
	return r.Intersect(bounds)
}

// FrameRect returns where the lens is drawn. It sits below-right of the
// pointer and flips to the opposite side when it would overflow the right or
// bottom edge of bounds.
func (m Magnifier) FrameRect(pointer image.Point, bounds image.Rectangle) image.Rectangle {
	x := pointer.X + magnifierMargin
	y := pointer.Y + magnifierMargin
	if x+m.Size > bounds.Max.X {
		x = pointer.X - m.Size - magnifierMargin
	}
	if y+m.Size > bounds.Max.Y {
		y = pointer.Y - m.Size - magnifierMargin
	}
	return image.Rect(x, y, x+m.Size, y+m.Size)
}

// Draw renders the lens onto dst: the zoomed crop of src around the pointer,
// a circular border and crosshair guides.
func (m Magnifier) Draw(dst *image.RGBA, src *image.RGBA, pointer image.Point) {
	frame := m.FrameRect(pointer, dst.Bounds())
	source := m.SourceRect(pointer, src.Bounds())
	if source.Empty() || frame.Empty() {
		return
	}
	xdraw.NearestNeighbor.Scale(dst, frame, src, source, draw.Src, nil)

	border := color.RGBA{0x00, 0xA8, 0xFF, 0xFF}
	cx := (frame.Min.X + frame.Max.X) / 2
	cy := (frame.Min.Y + frame.Max.Y) / 2
	drawCircleOutline(dst, cx, cy, m.Size/2, border, 2)

	guide := color.RGBA{0xFF, 0xFF, 0xFF, 0xC8}
	Line(dst, image.Pt(cx-10, cy), image.Pt(cx+10, cy), guide, 1)
	Line(dst, image.Pt(cx, cy-10), image.Pt(cx, cy+10), guide, 1)
}

func drawCircleOutline(img *image.RGBA, cx, cy, r int, col color.Color, thick int) {
	start := -thick / 2
	for i := 0; i < thick; i++ {
		rr := r + start + i
		if rr >= 0 {
			circleThin(img, cx, cy, rr, col)
		}
	}
}

func circleThin(img *image.RGBA, cx, cy, r int, col color.Color) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			px := cx + p[0]
			py := cy + p[1]
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

package render

import (
	"image"
	"image/color"
	"testing"
)

var red = color.RGBA{255, 0, 0, 255}

func countColored(img *image.RGBA, col color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == col {
				n++
			}
		}
	}
	return n
}

func TestLineEndpoints(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Line(img, image.Pt(2, 3), image.Pt(15, 11), red, 1)
	if img.RGBAAt(2, 3) != red {
		t.Errorf("start pixel not set")
	}
	if img.RGBAAt(15, 11) != red {
		t.Errorf("end pixel not set")
	}
}

func TestLineThicknessBrush(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Line(img, image.Pt(10, 2), image.Pt(10, 17), red, 3)
	for _, x := range []int{9, 10, 11} {
		if img.RGBAAt(x, 10) != red {
			t.Errorf("expected thick stroke to cover x=%d", x)
		}
	}
	if img.RGBAAt(13, 10) == red {
		t.Errorf("stroke wider than requested")
	}
}

func TestDashedLineHasGaps(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 8))
	DashedLine(img, image.Pt(0, 4), image.Pt(63, 4), red, 1, 4)
	on := 0
	for x := 0; x < 64; x++ {
		if img.RGBAAt(x, 4) == red {
			on++
		}
	}
	if on == 0 {
		t.Fatal("dashed line drew nothing")
	}
	if on == 64 {
		t.Fatal("dashed line has no gaps")
	}
	// First dash segment is on, the following one off.
	if img.RGBAAt(0, 4) != red {
		t.Errorf("expected first dash pixel set")
	}
	if img.RGBAAt(5, 4) == red {
		t.Errorf("expected gap pixel clear")
	}
}

func TestRectOutlineOnly(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	Rect(img, image.Rect(5, 5, 25, 25), red, 1)
	for _, p := range []image.Point{{5, 5}, {24, 5}, {24, 24}, {5, 24}, {15, 5}, {5, 15}} {
		if img.RGBAAt(p.X, p.Y) != red {
			t.Errorf("border pixel %v not set", p)
		}
	}
	if img.RGBAAt(15, 15) == red {
		t.Errorf("rectangle interior should stay unfilled")
	}
}

func TestEllipseStaysInBoundsAndUnfilled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	Ellipse(img, image.Rect(4, 4, 36, 26), red, 1)
	if countColored(img, red) == 0 {
		t.Fatal("ellipse drew nothing")
	}
	// Extremes of both axes.
	if img.RGBAAt(4, 15) != red {
		t.Errorf("left extreme not set")
	}
	if img.RGBAAt(20, 4) != red {
		t.Errorf("top extreme not set")
	}
	if img.RGBAAt(20, 15) == red {
		t.Errorf("ellipse interior should stay unfilled")
	}
}

func TestArrowHeadFilled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 20))
	Arrow(img, image.Pt(5, 10), image.Pt(50, 10), red, 1)
	line := countColored(img, red)

	plain := image.NewRGBA(image.Rect(0, 0, 60, 20))
	Line(plain, image.Pt(5, 10), image.Pt(50, 10), red, 1)
	if line <= countColored(plain, red) {
		t.Errorf("arrow should add head pixels beyond the bare segment")
	}
	// A point inside the triangular head, just behind the tip.
	if img.RGBAAt(46, 8) != red {
		t.Errorf("expected filled head pixel at (46,8)")
	}
}

func TestArrowZeroLength(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Arrow(img, image.Pt(10, 10), image.Pt(10, 10), red, 1)
	if n := countColored(img, red); n > 1 {
		t.Errorf("zero-length arrow drew %d pixels, want at most the degenerate point", n)
	}
}

func TestPolylineNeedsTwoPoints(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	Polyline(img, []image.Point{{5, 5}}, red, 2)
	if countColored(img, red) != 0 {
		t.Errorf("single-point polyline should draw nothing")
	}
	Polyline(img, []image.Point{{2, 2}, {10, 2}, {10, 12}}, red, 1)
	if img.RGBAAt(6, 2) != red || img.RGBAAt(10, 8) != red {
		t.Errorf("polyline segments missing")
	}
}

func TestDrawingClipsToBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	// Must not panic when geometry leaves the image.
	Line(img, image.Pt(-20, -5), image.Pt(30, 25), red, 3)
	Arrow(img, image.Pt(5, 5), image.Pt(40, 40), red, 2)
	Rect(img, image.Rect(-5, -5, 15, 15), red, 1)
}

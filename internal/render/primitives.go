// Package render provides the pure pixel-level drawing primitives shared by
// the selection overlay and the annotation canvas. All functions mutate the
// destination image in place and carry no state of their own.
package render

import (
	"image"
	"image/color"
	"math"
)

const (
	// ArrowHeadLength is the length of the filled triangular arrow head.
	ArrowHeadLength = 15
	// arrowHeadAngle is the half-angle of the arrow head.
	arrowHeadAngle = math.Pi / 6
)

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

// Line draws a straight segment between p0 and p1 using Bresenham's
// algorithm with a square brush of the given thickness.
func Line(img *image.RGBA, p0, p1 image.Point, col color.Color, thick int) {
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DashedLine draws a segment between p0 and p1 with an on/off dash pattern of
// the given dash length. The pattern follows the walked pixel distance, so
// diagonal segments dash the same way axis-aligned ones do.
func DashedLine(img *image.RGBA, p0, p1 image.Point, col color.Color, thick, dash int) {
	if dash < 1 {
		dash = 1
	}
	x0, y0 := p0.X, p0.Y
	x1, y1 := p1.X, p1.Y
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	step := 0
	for {
		if (step/dash)%2 == 0 {
			setThickPixel(img, x0, y0, thick, col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
		step++
	}
}

// Rect strokes the rectangle outline. The rectangle is not filled.
func Rect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	rect = rect.Canon()
	Line(img, rect.Min, image.Pt(rect.Max.X-1, rect.Min.Y), col, thick)
	Line(img, image.Pt(rect.Max.X-1, rect.Min.Y), image.Pt(rect.Max.X-1, rect.Max.Y-1), col, thick)
	Line(img, image.Pt(rect.Max.X-1, rect.Max.Y-1), image.Pt(rect.Min.X, rect.Max.Y-1), col, thick)
	Line(img, image.Pt(rect.Min.X, rect.Max.Y-1), rect.Min, col, thick)
}

// Ellipse strokes the ellipse inscribed in the bounding rectangle.
func Ellipse(img *image.RGBA, bounds image.Rectangle, col color.Color, thick int) {
	bounds = bounds.Canon()
	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2
	rx := bounds.Dx() / 2
	ry := bounds.Dy() / 2
	if rx == 0 && ry == 0 {
		setThickPixel(img, cx, cy, thick, col)
		return
	}
	steps := int(math.Ceil(2 * math.Pi * math.Sqrt(float64(rx*rx+ry*ry))))
	if steps < 8 {
		steps = 8
	}
	var prev image.Point
	for i := 0; i <= steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		p := image.Pt(
			cx+int(math.Round(math.Cos(angle)*float64(rx))),
			cy+int(math.Round(math.Sin(angle)*float64(ry))),
		)
		if i > 0 {
			Line(img, prev, p, col, thick)
		} else {
			setThickPixel(img, p.X, p.Y, thick, col)
		}
		prev = p
	}
}

// Arrow draws a segment from p0 to p1 with a filled triangular head at p1.
// A zero-length segment marks the single pixel and produces no head.
func Arrow(img *image.RGBA, p0, p1 image.Point, col color.Color, thick int) {
	Line(img, p0, p1, col, thick)
	if p0 == p1 {
		return
	}
	angle := math.Atan2(float64(p1.Y-p0.Y), float64(p1.X-p0.X))
	wing1 := image.Pt(
		p1.X-int(ArrowHeadLength*math.Cos(angle-arrowHeadAngle)),
		p1.Y-int(ArrowHeadLength*math.Sin(angle-arrowHeadAngle)),
	)
	wing2 := image.Pt(
		p1.X-int(ArrowHeadLength*math.Cos(angle+arrowHeadAngle)),
		p1.Y-int(ArrowHeadLength*math.Sin(angle+arrowHeadAngle)),
	)
	fillTriangle(img, p1, wing1, wing2, col)
}

// Polyline draws a freehand stroke through the ordered points.
func Polyline(img *image.RGBA, pts []image.Point, col color.Color, thick int) {
	if len(pts) < 2 {
		return
	}
	for i := 1; i < len(pts); i++ {
		Line(img, pts[i-1], pts[i], col, thick)
	}
}

// fillTriangle rasterizes the triangle a-b-c with a scanline fill.
func fillTriangle(img *image.RGBA, a, b, c image.Point, col color.Color) {
	minY := min3(a.Y, b.Y, c.Y)
	maxY := max3(a.Y, b.Y, c.Y)
	for y := minY; y <= maxY; y++ {
		minX := math.MaxInt32
		maxX := math.MinInt32
		for _, e := range [3][2]image.Point{{a, b}, {b, c}, {c, a}} {
			x, ok := edgeX(e[0], e[1], y)
			if !ok {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
		if minX > maxX {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, col)
			}
		}
	}
}

// edgeX returns the x coordinate where the edge p-q crosses scanline y.
func edgeX(p, q image.Point, y int) (int, bool) {
	if p.Y == q.Y {
		if p.Y != y {
			return 0, false
		}
		if p.X < q.X {
			return p.X, true
		}
		return q.X, true
	}
	if p.Y > q.Y {
		p, q = q, p
	}
	if y < p.Y || y > q.Y {
		return 0, false
	}
	t := float64(y-p.Y) / float64(q.Y-p.Y)
	return p.X + int(math.Round(t*float64(q.X-p.X))), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c int) int {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

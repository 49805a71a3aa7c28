package render

import (
	"image"
	"image/color"
	"testing"
)

func TestMagnifierSourceRectClamped(t *testing.T) {
	bounds := image.Rect(0, 0, 1920, 1080)
	m := DefaultMagnifier
	pointers := []image.Point{
		{0, 0}, {1919, 1079}, {960, 540}, {5, 1075}, {1915, 3}, {0, 540},
	}
	for _, p := range pointers {
		src := m.SourceRect(p, bounds)
		if src.Empty() {
			t.Fatalf("pointer %v: empty source rect", p)
		}
		if !src.In(bounds) {
			t.Errorf("pointer %v: source rect %v leaves capture bounds", p, src)
		}
		want := m.Size / m.Zoom
		if src.Dx() != want || src.Dy() != want {
			t.Errorf("pointer %v: source rect %v, want %dx%d", p, src, want, want)
		}
	}
}

func TestMagnifierSourceCenteredWhenRoomy(t *testing.T) {
	m := DefaultMagnifier
	bounds := image.Rect(0, 0, 1000, 1000)
	src := m.SourceRect(image.Pt(500, 500), bounds)
	size := m.Size / m.Zoom
	want := image.Rect(500-size/2, 500-size/2, 500-size/2+size, 500-size/2+size)
	if src != want {
		t.Errorf("source rect %v, want centered %v", src, want)
	}
}

func TestMagnifierFrameFlipsAtEdges(t *testing.T) {
	m := DefaultMagnifier
	bounds := image.Rect(0, 0, 800, 600)

	frame := m.FrameRect(image.Pt(100, 100), bounds)
	if frame.Min.X <= 100 || frame.Min.Y <= 100 {
		t.Errorf("expected frame below-right of pointer, got %v", frame)
	}

	// Near the right edge the frame moves to the left of the pointer.
	frame = m.FrameRect(image.Pt(790, 100), bounds)
	if frame.Max.X > 790 {
		t.Errorf("expected frame left of pointer near right edge, got %v", frame)
	}

	// Near the bottom edge it moves above the pointer.
	frame = m.FrameRect(image.Pt(100, 590), bounds)
	if frame.Max.Y > 590 {
		t.Errorf("expected frame above pointer near bottom edge, got %v", frame)
	}
}

func TestMagnifierDrawWritesLens(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), A: 255})
		}
	}
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)

	m := Magnifier{Size: 60, Zoom: 4}
	pointer := image.Pt(200, 150)
	m.Draw(dst, src, pointer)

	frame := m.FrameRect(pointer, dst.Bounds())
	center := image.Pt((frame.Min.X+frame.Max.X)/2, (frame.Min.Y+frame.Max.Y)/2)
	// Crosshair guides are drawn at the lens center.
	if dst.RGBAAt(center.X+5, center.Y).A == 0 {
		t.Errorf("expected crosshair pixels near lens center")
	}
}

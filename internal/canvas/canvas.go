// Package canvas owns the working bitmap of an editing session and its
// undo/redo history. Every completed drawing operation renders onto a copy
// of the current snapshot and commits the copy, so snapshots are immutable
// and undo is an index move.
//
// The canvas is not safe for concurrent use; a single interactive goroutine
// must own it.
package canvas

import (
	"image"
	"image/draw"

	"github.com/example/redactshot/internal/detect"
	"github.com/example/redactshot/internal/ocr"
)

type Canvas struct {
	hist history
	// work is what callers see. Between operations it aliases the current
	// snapshot; during a live preview it is a scratch copy.
	work *image.RGBA
}

func New() *Canvas { return &Canvas{} }

func clone(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out
}

// Load resets the canvas to img as the sole history entry.
func (c *Canvas) Load(img image.Image) {
	snap := image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
	draw.Draw(snap, snap.Bounds(), img, img.Bounds().Min, draw.Src)
	c.hist.reset(snap)
	c.work = snap
}

// Bitmap returns the current bitmap, including any in-flight preview.
// Callers must treat it as read-only.
func (c *Canvas) Bitmap() *image.RGBA { return c.work }

// Loaded reports whether Load has been called.
func (c *Canvas) Loaded() bool { return c.hist.length > 0 }

// HistoryLen returns the number of committed snapshots.
func (c *Canvas) HistoryLen() int { return c.hist.length }

// Apply renders op onto a copy of the current snapshot and commits it.
// Degenerate input (zero-length arrow, a pen stroke with fewer than two
// points, empty text) is discarded without touching history; a pending
// preview of it is rolled back.
func (c *Canvas) Apply(op Op, st Style) {
	if !c.Loaded() {
		return
	}
	if degenerate(op) {
		c.work = c.hist.current()
		return
	}
	snap := clone(c.hist.current())
	drawOp(snap, op, st)
	c.hist.push(snap)
	c.work = snap
}

// Preview renders op over the current snapshot without committing. Each call
// starts from the snapshot again, so a moving drag or a growing pen stroke
// never compounds onto its own earlier frames.
func (c *Canvas) Preview(op Op, st Style) {
	if !c.Loaded() {
		return
	}
	scratch := clone(c.hist.current())
	drawOp(scratch, op, st)
	c.work = scratch
}

// CancelPreview discards an in-flight preview.
func (c *Canvas) CancelPreview() {
	if c.Loaded() {
		c.work = c.hist.current()
	}
}

// Undo steps back one snapshot. A no-op at the oldest entry.
func (c *Canvas) Undo() bool {
	if !c.hist.undo() {
		c.work = c.hist.current()
		return false
	}
	c.work = c.hist.current()
	return true
}

// Redo steps forward one snapshot. A no-op at the newest entry.
func (c *Canvas) Redo() bool {
	if !c.hist.redo() {
		c.work = c.hist.current()
		return false
	}
	c.work = c.hist.current()
	return true
}

// SmartRedact mosaics every rectangle in one atomic commit: a single Undo
// reverts all of them. Empty input commits nothing.
func (c *Canvas) SmartRedact(rects []image.Rectangle) bool {
	if !c.Loaded() || len(rects) == 0 {
		return false
	}
	snap := clone(c.hist.current())
	drew := false
	for _, r := range rects {
		r = r.Canon()
		if r.Empty() {
			continue
		}
		drawOp(snap, MosaicOp{Region: r}, Style{})
		drew = true
	}
	if !drew {
		return false
	}
	c.hist.push(snap)
	c.work = snap
	return true
}

// DetectAndRedact scans the recognized regions for sensitive data, keeps the
// categories listed in keep (nil keeps all) and mosaics the union of the
// matched source rectangles in one commit. It returns the matches applied;
// when nothing matches, no commit happens and the result is empty.
func (c *Canvas) DetectAndRedact(regions []ocr.Region, keep []detect.Category) []detect.Match {
	if !c.Loaded() || len(regions) == 0 {
		return nil
	}
	textRegions := make([]detect.TextRegion, len(regions))
	for i, r := range regions {
		textRegions[i] = detect.TextRegion{Text: r.Text, Rect: r.Rect}
	}
	matches := detect.DetectIn(textRegions, keep)
	if len(matches) == 0 {
		return nil
	}
	// Overlapping matches may share a source rectangle; redact each rect once.
	seen := map[image.Rectangle]bool{}
	var rects []image.Rectangle
	for _, m := range matches {
		if m.Rect.Empty() || seen[m.Rect] {
			continue
		}
		seen[m.Rect] = true
		rects = append(rects, m.Rect)
	}
	if !c.SmartRedact(rects) {
		return nil
	}
	return matches
}

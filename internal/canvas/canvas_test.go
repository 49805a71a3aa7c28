package canvas

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/example/redactshot/internal/detect"
	"github.com/example/redactshot/internal/ocr"
	"github.com/example/redactshot/internal/render"
)

var style = Style{Color: color.RGBA{255, 0, 0, 255}, Width: 2}

func newLoaded(w, h int) *Canvas {
	c := New()
	c.Load(image.NewRGBA(image.Rect(0, 0, w, h)))
	return c
}

func snapshot(c *Canvas) []byte {
	out := make([]byte, len(c.Bitmap().Pix))
	copy(out, c.Bitmap().Pix)
	return out
}

// ops returns n distinct line operations, each leaving a different bitmap.
func ops(n int) []Op {
	out := make([]Op, n)
	for i := range out {
		out[i] = LineOp{Start: image.Pt(0, i*3), End: image.Pt(50, i*3)}
	}
	return out
}

func TestLoadResetsHistory(t *testing.T) {
	c := newLoaded(40, 40)
	c.Apply(LineOp{Start: image.Pt(0, 0), End: image.Pt(30, 30)}, style)
	if c.HistoryLen() != 2 {
		t.Fatalf("history length %d, want 2", c.HistoryLen())
	}
	c.Load(image.NewRGBA(image.Rect(0, 0, 40, 40)))
	if c.HistoryLen() != 1 {
		t.Errorf("history length after reload %d, want 1", c.HistoryLen())
	}
	if c.Undo() {
		t.Error("undo should be a no-op on fresh history")
	}
}

func TestUndoRedoEquivalence(t *testing.T) {
	// After N draws, M undos and K redos the bitmap must equal the one
	// after only N-M+K draws.
	const n, m, k = 5, 3, 2
	allOps := ops(n)

	c := newLoaded(60, 60)
	states := [][]byte{snapshot(c)}
	for _, op := range allOps {
		c.Apply(op, style)
		states = append(states, snapshot(c))
	}
	for i := 0; i < m; i++ {
		if !c.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	for i := 0; i < k; i++ {
		if !c.Redo() {
			t.Fatalf("redo %d failed", i)
		}
	}
	if got, want := snapshot(c), states[n-m+k]; !bytes.Equal(got, want) {
		t.Errorf("bitmap after %d ops, %d undos, %d redos differs from %d plain ops", n, m, k, n-m+k)
	}
}

func TestUndoRedoBounds(t *testing.T) {
	c := newLoaded(30, 30)
	c.Apply(ops(1)[0], style)
	if c.Redo() {
		t.Error("redo at tip should be a no-op")
	}
	if !c.Undo() {
		t.Error("undo from tip should succeed")
	}
	if c.Undo() {
		t.Error("undo at floor should be a no-op")
	}
	before := snapshot(c)
	c.Undo()
	c.Undo()
	if !bytes.Equal(before, snapshot(c)) {
		t.Error("no-op undo changed the bitmap")
	}
}

func TestDrawAfterUndoDiscardsRedo(t *testing.T) {
	c := newLoaded(60, 60)
	for _, op := range ops(3) {
		c.Apply(op, style)
	}
	c.Undo()
	c.Undo()
	c.Apply(LineOp{Start: image.Pt(5, 50), End: image.Pt(55, 50)}, style)
	after := snapshot(c)
	if c.Redo() {
		t.Error("redo after a fresh draw must be a no-op")
	}
	if !bytes.Equal(after, snapshot(c)) {
		t.Error("no-op redo changed the bitmap")
	}
	if c.HistoryLen() != 3 {
		t.Errorf("history length %d, want 3 (load + 1 kept + new draw)", c.HistoryLen())
	}
}

func TestPreviewDoesNotCompound(t *testing.T) {
	c := newLoaded(60, 60)
	base := snapshot(c)
	c.Preview(LineOp{Start: image.Pt(0, 10), End: image.Pt(50, 10)}, style)
	c.Preview(LineOp{Start: image.Pt(0, 20), End: image.Pt(50, 20)}, style)
	// The second preview starts from the snapshot, so row 10 is clean again.
	if c.Bitmap().RGBAAt(25, 10) == style.Color {
		t.Error("earlier preview leaked into the next frame")
	}
	if c.Bitmap().RGBAAt(25, 20) != style.Color {
		t.Error("current preview missing")
	}
	if c.HistoryLen() != 1 {
		t.Errorf("preview committed history: length %d", c.HistoryLen())
	}
	c.CancelPreview()
	if !bytes.Equal(base, snapshot(c)) {
		t.Error("cancelled preview left marks")
	}
}

func TestPenCommitOnceOnRelease(t *testing.T) {
	c := newLoaded(60, 60)
	pts := []image.Point{{5, 5}}
	for i := 1; i < 10; i++ {
		pts = append(pts, image.Pt(5+i*5, 5+i*2))
		c.Preview(PenOp{Points: pts}, style)
	}
	if c.HistoryLen() != 1 {
		t.Fatalf("live pen rendering committed: length %d", c.HistoryLen())
	}
	c.Apply(PenOp{Points: pts}, style)
	if c.HistoryLen() != 2 {
		t.Errorf("pen release committed %d entries, want exactly 1", c.HistoryLen()-1)
	}
}

func TestDegenerateOpsRejected(t *testing.T) {
	c := newLoaded(40, 40)
	base := snapshot(c)

	c.Apply(ArrowOp{Start: image.Pt(10, 10), End: image.Pt(10, 10)}, style)
	c.Apply(PenOp{Points: []image.Point{{3, 3}}}, style)
	c.Apply(PenOp{}, style)
	c.Apply(TextOp{At: image.Pt(5, 20)}, style)
	c.Apply(MosaicOp{}, style)

	if c.HistoryLen() != 1 {
		t.Errorf("degenerate ops committed history: length %d", c.HistoryLen())
	}
	if !bytes.Equal(base, snapshot(c)) {
		t.Error("degenerate ops changed the bitmap")
	}
}

func TestTextCommitsImmediately(t *testing.T) {
	c := newLoaded(120, 40)
	c.Apply(TextOp{At: image.Pt(5, 25), Value: "hi"}, style)
	if c.HistoryLen() != 2 {
		t.Fatalf("history length %d, want 2", c.HistoryLen())
	}
	marked := false
	for _, p := range c.Bitmap().Pix {
		if p != 0 {
			marked = true
			break
		}
	}
	if !marked {
		t.Error("text op drew nothing")
	}
}

func TestSmartRedactSingleCommit(t *testing.T) {
	c := newLoaded(120, 120)
	base := snapshot(c)
	rects := []image.Rectangle{
		image.Rect(5, 5, 40, 25),
		image.Rect(50, 30, 110, 55),
		image.Rect(10, 70, 90, 100),
	}
	if !c.SmartRedact(rects) {
		t.Fatal("SmartRedact reported no work")
	}
	if c.HistoryLen() != 2 {
		t.Fatalf("redacting %d rects committed %d entries, want 1", len(rects), c.HistoryLen()-1)
	}
	for _, r := range rects {
		if !render.IsMosaicColor(c.Bitmap().RGBAAt(r.Min.X+2, r.Min.Y+2)) {
			t.Errorf("rect %v not redacted", r)
		}
	}
	// One undo reverts all rects at once.
	c.Undo()
	if !bytes.Equal(base, snapshot(c)) {
		t.Error("single undo did not revert the whole batch")
	}
}

func TestSmartRedactEmptyInput(t *testing.T) {
	c := newLoaded(40, 40)
	if c.SmartRedact(nil) {
		t.Error("empty batch should commit nothing")
	}
	if c.SmartRedact([]image.Rectangle{{}}) {
		t.Error("batch of empty rects should commit nothing")
	}
	if c.HistoryLen() != 1 {
		t.Errorf("history length %d", c.HistoryLen())
	}
}

func TestDetectAndRedact(t *testing.T) {
	c := newLoaded(300, 100)
	regions := []ocr.Region{
		{Text: "phone 13800138000", Rect: image.Rect(10, 10, 200, 30)},
		{Text: "hello world", Rect: image.Rect(10, 40, 200, 60)},
	}
	got := c.DetectAndRedact(regions, nil)
	if len(got) != 1 {
		t.Fatalf("matches: %+v", got)
	}
	if got[0].Category != detect.Phone {
		t.Errorf("category %v", got[0].Category)
	}
	if c.HistoryLen() != 2 {
		t.Errorf("history length %d, want 2", c.HistoryLen())
	}
	if !render.IsMosaicColor(c.Bitmap().RGBAAt(15, 15)) {
		t.Error("matched region not redacted")
	}
	if render.IsMosaicColor(c.Bitmap().RGBAAt(15, 45)) {
		t.Error("unmatched region was redacted")
	}
}

func TestDetectAndRedactNoMatches(t *testing.T) {
	c := newLoaded(100, 100)
	base := snapshot(c)
	got := c.DetectAndRedact([]ocr.Region{{Text: "plain text", Rect: image.Rect(0, 0, 50, 20)}}, nil)
	if len(got) != 0 {
		t.Errorf("matches: %+v", got)
	}
	if c.HistoryLen() != 1 {
		t.Errorf("no-match detection committed history")
	}
	if !bytes.Equal(base, snapshot(c)) {
		t.Error("no-match detection changed the bitmap")
	}
	if got := c.DetectAndRedact(nil, nil); len(got) != 0 {
		t.Errorf("nil regions produced matches: %+v", got)
	}
}

func TestDetectAndRedactCategoryFilter(t *testing.T) {
	c := newLoaded(300, 100)
	regions := []ocr.Region{
		{Text: "13800138000", Rect: image.Rect(10, 10, 150, 30)},
		{Text: "user@example.com", Rect: image.Rect(10, 50, 150, 70)},
	}
	got := c.DetectAndRedact(regions, []detect.Category{detect.Email})
	if len(got) != 1 || got[0].Category != detect.Email {
		t.Fatalf("matches: %+v", got)
	}
	if render.IsMosaicColor(c.Bitmap().RGBAAt(15, 15)) {
		t.Error("phone region redacted despite filter")
	}
	if !render.IsMosaicColor(c.Bitmap().RGBAAt(15, 55)) {
		t.Error("email region not redacted")
	}
}

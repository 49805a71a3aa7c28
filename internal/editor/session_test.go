package editor

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/example/redactshot/internal/canvas"
	"github.com/example/redactshot/internal/config"
	"github.com/example/redactshot/internal/history"
	"github.com/example/redactshot/internal/ocr"
	"github.com/example/redactshot/internal/render"
)

func newTestSession(t *testing.T, adapter *ocr.Adapter) *Session {
	t.Helper()
	cfg := config.New()
	cfg.SaveDir = t.TempDir()
	return NewSession(cfg, adapter, nil, nil)
}

func loadShot(t *testing.T, s *Session, w, h int) {
	t.Helper()
	shot := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := s.SetScreenshot(shot, image.Rect(0, 0, w, h)); err != nil {
		t.Fatal(err)
	}
}

func TestSetScreenshotCrops(t *testing.T) {
	s := newTestSession(t, nil)
	shot := image.NewRGBA(image.Rect(0, 0, 500, 400))
	if err := s.SetScreenshot(shot, image.Rect(100, 50, 300, 250)); err != nil {
		t.Fatal(err)
	}
	if got := s.Canvas().Bitmap().Bounds(); got != image.Rect(0, 0, 200, 200) {
		t.Errorf("canvas bounds %v", got)
	}
	if err := s.SetScreenshot(shot, image.Rect(600, 600, 700, 700)); err == nil {
		t.Error("expected error for region outside the capture")
	}
}

func TestFitWindow(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 400, 300)

	screen := image.Pt(1920, 1080)
	size, origin := s.FitWindow(screen)
	if size != image.Pt(440, 450) {
		t.Errorf("size %v, want (440,450)", size)
	}
	if origin != image.Pt((1920-440)/2, (1080-450)/2) {
		t.Errorf("origin %v", origin)
	}
}

func TestFitWindowClampsToScreen(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 1900, 1060)

	size, _ := s.FitWindow(image.Pt(1920, 1080))
	if size != image.Pt(1820, 980) {
		t.Errorf("size %v, want (1820,980)", size)
	}
}

func TestDefaultSavePath(t *testing.T) {
	s := newTestSession(t, nil)
	path := s.DefaultSavePath()
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "Screenshot_") || !strings.HasSuffix(base, ".png") {
		t.Errorf("save name %q", base)
	}
	if filepath.Dir(path) != s.cfg.SaveDir {
		t.Errorf("save dir %q, want %q", filepath.Dir(path), s.cfg.SaveDir)
	}

	s.cfg.SaveFormat = "webp"
	if base := filepath.Base(s.DefaultSavePath()); !strings.HasSuffix(base, ".webp") {
		t.Errorf("save name %q", base)
	}
}

func TestSaveToFile(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 60, 40)

	path := filepath.Join(s.cfg.SaveDir, "out.png")
	if err := s.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("saved file is not a png: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 60, 40) {
		t.Errorf("saved bounds %v", img.Bounds())
	}

	// No temp files left behind.
	entries, err := os.ReadDir(s.cfg.SaveDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".redactshot-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestSaveToFileUnsupportedFormat(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 10, 10)
	if err := s.SaveToFile(filepath.Join(s.cfg.SaveDir, "out.bmp")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSaveWithoutScreenshot(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.SaveToFile(filepath.Join(s.cfg.SaveDir, "out.png")); err == nil {
		t.Error("expected error with no screenshot")
	}
}

func TestSaveRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := history.Open(filepath.Join(dir, "history.db"), 10)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	cfg := config.New()
	cfg.SaveDir = dir
	s := NewSession(cfg, nil, store, nil)
	loadShot(t, s, 80, 60)

	path := filepath.Join(dir, "shot.png")
	if err := s.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("history entries: %d", len(entries))
	}
	if entries[0].Path != path || entries[0].Width != 80 || entries[0].Height != 60 {
		t.Errorf("entry %+v", entries[0])
	}
	if entries[0].ThumbPath == "" {
		t.Error("no thumbnail recorded")
	} else if _, err := os.Stat(entries[0].ThumbPath); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}
}

type stubEngine struct {
	regions []ocr.Region
}

func (stubEngine) Init(ctx context.Context) error       { return nil }
func (stubEngine) ModelsExist(ctx context.Context) bool { return true }
func (e stubEngine) Recognize(ctx context.Context, img image.Image) ([]ocr.Region, error) {
	return e.regions, nil
}

func loadedAdapter(t *testing.T, eng ocr.Engine) *ocr.Adapter {
	t.Helper()
	a := ocr.NewAdapter(eng, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	a.Load(func(ok bool, reason string) {
		defer wg.Done()
		if !ok {
			t.Errorf("load failed: %s", reason)
		}
	})
	wg.Wait()
	return a
}

func TestSmartRedact(t *testing.T) {
	eng := stubEngine{regions: []ocr.Region{
		{Text: "call 13800138000 now", Rect: image.Rect(5, 5, 90, 20)},
	}}
	s := newTestSession(t, loadedAdapter(t, eng))
	loadShot(t, s, 100, 50)

	matches := s.SmartRedact(context.Background(), nil)
	if len(matches) != 1 {
		t.Fatalf("matches: %+v", matches)
	}
	if !render.IsMosaicColor(s.Canvas().Bitmap().RGBAAt(10, 10)) {
		t.Error("matched region not redacted")
	}
	if s.Canvas().HistoryLen() != 2 {
		t.Errorf("history length %d, want 2", s.Canvas().HistoryLen())
	}
}

func TestSmartRedactNoAdapter(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 50, 50)
	if got := s.SmartRedact(context.Background(), nil); got != nil {
		t.Errorf("matches without adapter: %+v", got)
	}
	if s.Canvas().HistoryLen() != 1 {
		t.Errorf("history length %d", s.Canvas().HistoryLen())
	}
}

func TestSnapshotBitmapIsIndependent(t *testing.T) {
	s := newTestSession(t, nil)
	loadShot(t, s, 40, 30)

	snap := s.SnapshotBitmap()
	if snap == nil {
		t.Fatal("no snapshot from a loaded session")
	}
	if &snap.Pix[0] == &s.Canvas().Bitmap().Pix[0] {
		t.Fatal("snapshot shares the live bitmap's pixels")
	}

	before := snap.RGBAAt(10, 10)
	s.Canvas().Apply(canvas.LineOp{Start: image.Pt(0, 10), End: image.Pt(39, 10)}, s.DefaultStyle())
	if s.Canvas().Bitmap().RGBAAt(10, 10) == before {
		t.Fatal("draw did not reach the canvas")
	}
	if got := snap.RGBAAt(10, 10); got != before {
		t.Errorf("snapshot changed with the canvas: %v -> %v", before, got)
	}
}

func TestSnapshotBitmapWithoutScreenshot(t *testing.T) {
	s := newTestSession(t, nil)
	if s.SnapshotBitmap() != nil {
		t.Error("snapshot from an empty session")
	}
}

type countingEngine struct {
	stubEngine
	calls int
}

func (e *countingEngine) Recognize(ctx context.Context, img image.Image) ([]ocr.Region, error) {
	e.calls++
	return e.stubEngine.regions, nil
}

func TestCopyTextReusesRecognizedRegions(t *testing.T) {
	eng := &countingEngine{stubEngine: stubEngine{regions: []ocr.Region{
		{Text: "hello", Rect: image.Rect(0, 0, 20, 10)},
	}}}
	s := newTestSession(t, loadedAdapter(t, eng))
	loadShot(t, s, 50, 50)

	regions := s.RecognizeImage(context.Background(), s.SnapshotBitmap())
	if eng.calls != 1 {
		t.Fatalf("recognition calls: %d", eng.calls)
	}
	// The clipboard may be unavailable here; either way copying must not
	// run recognition a second time.
	s.CopyText(regions)
	if eng.calls != 1 {
		t.Errorf("copy ran recognition again (%d calls)", eng.calls)
	}
}

func TestCopyTextEmptyRegions(t *testing.T) {
	s := newTestSession(t, nil)
	n, err := s.CopyText(nil)
	if n != 0 || err != nil {
		t.Errorf("CopyText(nil) = %d, %v", n, err)
	}
}

func TestRecognizeUnloadedAdapterIsEmpty(t *testing.T) {
	eng := stubEngine{regions: []ocr.Region{{Text: "secret"}}}
	s := newTestSession(t, ocr.NewAdapter(eng, nil))
	loadShot(t, s, 50, 50)
	if got := s.Recognize(context.Background()); len(got) != 0 {
		t.Errorf("unloaded adapter returned regions: %+v", got)
	}
}

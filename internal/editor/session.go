// Package editor owns one editing session: the cropped capture on an
// annotation canvas, the export paths (file, clipboard) and the smart
// redaction flow built on the recognition adapter.
package editor

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chai2010/webp"

	"github.com/example/redactshot/internal/canvas"
	"github.com/example/redactshot/internal/capture"
	"github.com/example/redactshot/internal/clipboard"
	"github.com/example/redactshot/internal/config"
	"github.com/example/redactshot/internal/detect"
	"github.com/example/redactshot/internal/history"
	"github.com/example/redactshot/internal/notify"
	"github.com/example/redactshot/internal/ocr"
)

// Margins added around the crop when sizing the editing window, and the
// slack kept from the screen edges.
const (
	chromeWidth  = 40
	chromeHeight = 150
	screenSlack  = 100
)

const jpegQuality = 90

// Session drives one screenshot from selection to export.
type Session struct {
	cfg      *config.Config
	canvas   *canvas.Canvas
	adapter  *ocr.Adapter
	store    *history.Store
	notifier *notify.Notifier
}

// NewSession creates a session around cfg. store and notifier may be nil.
func NewSession(cfg *config.Config, adapter *ocr.Adapter, store *history.Store, notifier *notify.Notifier) *Session {
	return &Session{
		cfg:      cfg,
		canvas:   canvas.New(),
		adapter:  adapter,
		store:    store,
		notifier: notifier,
	}
}

// Canvas exposes the annotation canvas for the editing window.
func (s *Session) Canvas() *canvas.Canvas { return s.canvas }

// Adapter exposes the recognition adapter, possibly nil.
func (s *Session) Adapter() *ocr.Adapter { return s.adapter }

// DefaultStyle is the pen the session starts with.
func (s *Session) DefaultStyle() canvas.Style {
	return canvas.Style{Color: s.cfg.DefaultColor, Width: s.cfg.LineWidth}
}

// SetScreenshot crops region out of shot and loads it as a fresh canvas.
func (s *Session) SetScreenshot(shot *image.RGBA, region image.Rectangle) error {
	cropped, err := capture.Crop(shot, region)
	if err != nil {
		return fmt.Errorf("crop selection: %w", err)
	}
	s.canvas.Load(cropped)
	return nil
}

// FitWindow sizes the editing window for the loaded crop: the crop plus
// toolbar chrome, bounded by the screen less a slack margin, centered.
func (s *Session) FitWindow(screen image.Point) (size, origin image.Point) {
	bounds := s.canvas.Bitmap().Bounds()
	size = image.Pt(bounds.Dx()+chromeWidth, bounds.Dy()+chromeHeight)
	if max := screen.X - screenSlack; size.X > max {
		size.X = max
	}
	if max := screen.Y - screenSlack; size.Y > max {
		size.Y = max
	}
	origin = image.Pt((screen.X-size.X)/2, (screen.Y-size.Y)/2)
	return size, origin
}

// DefaultSavePath names the output file from the current time and the
// configured directory and format.
func (s *Session) DefaultSavePath() string {
	dir := s.cfg.SaveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, "Pictures")
		} else {
			dir = "."
		}
	}
	name := fmt.Sprintf("Screenshot_%s.%s", time.Now().Format("20060102_150405"), s.cfg.SaveFormat)
	return filepath.Join(dir, name)
}

// Save writes to the default path and returns it. When auto copy is
// configured the saved image also lands on the clipboard.
func (s *Session) Save() (string, error) {
	path := s.DefaultSavePath()
	if err := s.SaveToFile(path); err != nil {
		return "", err
	}
	if s.cfg.AutoCopy {
		if err := s.CopyToClipboard(); err != nil {
			log.Printf("auto copy: %v", err)
		}
	}
	return path, nil
}

// SaveToFile writes the current bitmap to path. The format follows the
// extension (png, jpg, webp); the write goes through a temp file in the
// same directory so the target never holds a partial image. On success a
// thumbnail is generated and the history store is told.
func (s *Session) SaveToFile(path string) error {
	if !s.canvas.Loaded() {
		return fmt.Errorf("no screenshot loaded")
	}
	img := s.canvas.Bitmap()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".redactshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := encode(tmp, img, filepath.Ext(path)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}

	s.recordSave(path, img)
	s.notifier.Save(path)
	return nil
}

func (s *Session) recordSave(path string, img *image.RGBA) {
	if s.store == nil {
		return
	}
	thumb, err := history.WriteThumbnail(img, path)
	if err != nil {
		log.Printf("thumbnail: %v", err)
	}
	_, err = s.store.Add(history.Entry{
		Path:      path,
		ThumbPath: thumb,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
	})
	if err != nil {
		log.Printf("history: %v", err)
	}
}

func encode(f *os.File, img *image.RGBA, ext string) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	case ".webp":
		if err := webp.Encode(f, img, &webp.Options{Lossless: true}); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
	return nil
}

// CopyToClipboard publishes the current bitmap to the OS clipboard.
func (s *Session) CopyToClipboard() error {
	if !s.canvas.Loaded() {
		return fmt.Errorf("no screenshot loaded")
	}
	if err := clipboard.WriteImage(s.canvas.Bitmap()); err != nil {
		return err
	}
	s.notifier.Copy("image")
	return nil
}

// SnapshotBitmap returns an independent copy of the current bitmap. Work
// that runs off the interactive goroutine, like recognition, must operate
// on a snapshot: the live bitmap keeps changing as the user draws.
func (s *Session) SnapshotBitmap() *image.RGBA {
	if !s.canvas.Loaded() {
		return nil
	}
	src := s.canvas.Bitmap()
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// RecognizeImage runs text recognition over img. It returns nil when the
// adapter is missing or not loaded.
func (s *Session) RecognizeImage(ctx context.Context, img *image.RGBA) []ocr.Region {
	if s.adapter == nil || img == nil {
		return nil
	}
	return s.adapter.Recognize(ctx, img)
}

// Recognize runs text recognition over the current bitmap. Only for use on
// the goroutine that owns the canvas.
func (s *Session) Recognize(ctx context.Context) []ocr.Region {
	if !s.canvas.Loaded() {
		return nil
	}
	return s.RecognizeImage(ctx, s.canvas.Bitmap())
}

// SmartRedact recognizes text and mosaics every region holding sensitive
// data, in one undoable step. keep filters the categories; nil keeps all.
func (s *Session) SmartRedact(ctx context.Context, keep []detect.Category) []detect.Match {
	regions := s.Recognize(ctx)
	if len(regions) == 0 {
		return nil
	}
	return s.canvas.DetectAndRedact(regions, keep)
}

// CopyText puts the text of already-recognized regions on the clipboard
// and returns the number of regions copied.
func (s *Session) CopyText(regions []ocr.Region) (int, error) {
	if len(regions) == 0 {
		return 0, nil
	}
	if err := clipboard.WriteText(ocr.AllText(regions)); err != nil {
		return 0, err
	}
	s.notifier.Copy("recognized text")
	return len(regions), nil
}

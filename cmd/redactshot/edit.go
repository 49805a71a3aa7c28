package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/redactshot/internal/capture"
	"github.com/example/redactshot/internal/editor"
	"github.com/example/redactshot/internal/ocr"
)

type editCmd struct {
	path      string
	display   string
	noHistory bool
	*root
	fs *flag.FlagSet
}

func (e *editCmd) Synopsis() string {
	return "[flags] <image-file>"
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r.subcommand("edit"), fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.display, "display", "", "size the window for this display instead of the primary one")
	fs.BoolVar(&e.noHistory, "no-history", false, "do not record the saved image in the capture history")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: e}
	}
	e.path = fs.Arg(0)
	return e, nil
}

func (e *editCmd) Run() error {
	img, err := loadImage(e.path)
	if err != nil {
		return err
	}

	adapter := ocr.NewAdapter(ocr.NewOllama(e.config.OCR.Host, e.config.OCR.Model), nil)
	store := e.root.openStore(e.noHistory)
	if store != nil {
		defer store.Close()
	}
	sess := editor.NewSession(e.config, adapter, store, e.notifier)
	if err := sess.SetScreenshot(img, img.Bounds()); err != nil {
		return err
	}

	screenSize := e.screenSize(img)
	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = editor.Run(s, sess, screenSize)
	})
	return runErr
}

// screenSize asks the display stack how big the editing window may grow.
// When no display information is available the image itself bounds the
// window.
func (e *editCmd) screenSize(img *image.RGBA) image.Point {
	monitors, err := capture.Monitors()
	if err != nil || len(monitors) == 0 {
		return img.Bounds().Size().Add(image.Pt(200, 300))
	}
	selector := e.display
	if selector == "" {
		selector = "primary"
	}
	mon, err := capture.FindMonitor(monitors, selector)
	if err != nil {
		mon = monitors[0]
	}
	return mon.Rect.Size()
}

func loadImage(path string) (*image.RGBA, error) {
	var decode func(io.Reader) (image.Image, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		decode = png.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	case ".webp":
		decode = webp.Decode
	default:
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

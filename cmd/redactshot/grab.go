package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"

	"github.com/example/redactshot/internal/capture"
	"github.com/example/redactshot/internal/editor"
	"github.com/example/redactshot/internal/history"
	"github.com/example/redactshot/internal/ocr"
	"github.com/example/redactshot/internal/overlay"
)

type grabCmd struct {
	display       string
	includeCursor bool
	noMagnifier   bool
	noHistory     bool
	*root
	fs *flag.FlagSet
}

func (g *grabCmd) Synopsis() string {
	return "[flags]"
}

func (g *grabCmd) FlagSet() *flag.FlagSet {
	return g.fs
}

func parseGrabCmd(args []string, r *root) (*grabCmd, error) {
	fs := flag.NewFlagSet("grab", flag.ExitOnError)
	g := &grabCmd{root: r.subcommand("grab"), fs: fs}
	fs.Usage = usageFunc(g)
	fs.StringVar(&g.display, "display", "", "capture a single display: primary, an index like #0, or a name substring")
	fs.BoolVar(&g.includeCursor, "include-cursor", false, "embed the cursor in the capture when supported")
	fs.BoolVar(&g.noMagnifier, "no-magnifier", false, "disable the pixel magnifier during selection")
	fs.BoolVar(&g.noHistory, "no-history", false, "do not record the saved image in the capture history")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: g}
	}
	return g, nil
}

func (g *grabCmd) captureFunc() overlay.CaptureFunc {
	opts := capture.Options{IncludeCursor: g.includeCursor}
	if g.display != "" {
		return func() (*image.RGBA, error) {
			return capture.Monitor(g.display, opts)
		}
	}
	return func() (*image.RGBA, error) {
		return capture.Screen(opts)
	}
}

// openStore opens the capture history, or returns nil when history is
// turned off or unavailable. Saving still works without it.
func (r *root) openStore(disabled bool) *history.Store {
	if disabled || r.config.MaxHistory == 0 {
		return nil
	}
	path, err := historyDBPath()
	if err != nil {
		log.Printf("history disabled: %v", err)
		return nil
	}
	store, err := history.Open(path, r.config.MaxHistory)
	if err != nil {
		log.Printf("history disabled: %v", err)
		return nil
	}
	return store
}

func (g *grabCmd) Run() error {
	adapter := ocr.NewAdapter(ocr.NewOllama(g.config.OCR.Host, g.config.OCR.Model), nil)
	store := g.root.openStore(g.noHistory)
	if store != nil {
		defer store.Close()
	}
	sess := editor.NewSession(g.config, adapter, store, g.notifier)

	cfg := g.config
	var (
		shot   *image.RGBA
		region image.Rectangle
		picked bool
	)
	sel := overlay.New(g.captureFunc(),
		overlay.WithMagnifier(cfg.ShowMagnifier && !g.noMagnifier),
		overlay.WithMagnifierZoom(cfg.MagnifierZoom),
		overlay.WithOnComplete(func(img *image.RGBA, r image.Rectangle) {
			shot, region, picked = img, r, true
		}),
	)

	var runErr error
	driver.Main(func(s screen.Screen) {
		if err := overlay.Run(s, sel); err != nil {
			runErr = fmt.Errorf("selection overlay: %w", err)
			return
		}
		if !picked {
			return
		}
		screenSize := shot.Bounds().Size()
		if err := sess.SetScreenshot(shot, region); err != nil {
			runErr = err
			return
		}
		runErr = editor.Run(s, sess, screenSize)
	})
	return runErr
}

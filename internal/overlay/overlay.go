// Package overlay implements the full-screen region selector: a frozen
// screenshot is shown dimmed, the user drags out a bright rectangle, and on
// release the capture plus the selected region are handed to the caller.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/redactshot/internal/render"
)

// minSelection is the side length a drag must exceed to count as a
// selection. Anything smaller on release cancels the gesture.
const minSelection = 10

var (
	borderColor = color.RGBA{0, 168, 255, 255}
	dimColor    = color.RGBA{0, 0, 0, 120}
	labelBg     = color.RGBA{20, 20, 20, 230}
	labelFg     = color.RGBA{255, 255, 255, 255}
)

const hintText = "Drag to select a region, Esc to cancel"

// CaptureFunc produces a screenshot of the whole screen.
type CaptureFunc func() (*image.RGBA, error)

// Selector drives one selection gesture at a time. It owns the screen
// capture from Begin until the gesture ends, then transfers it to the
// complete callback or discards it on cancel.
type Selector struct {
	capture    CaptureFunc
	onComplete func(screenshot *image.RGBA, region image.Rectangle)
	onCancel   func()

	showMagnifier bool
	mag           render.Magnifier

	screenshot *image.RGBA
	active     bool
	dragging   bool
	moved      bool
	origin     image.Point
	pointer    image.Point
}

// Option modifies a Selector during creation.
type Option func(*Selector)

// WithMagnifier toggles the pointer magnifier shown while no drag is active.
func WithMagnifier(enabled bool) Option {
	return func(s *Selector) { s.showMagnifier = enabled }
}

// WithMagnifierZoom overrides the magnifier zoom factor.
func WithMagnifierZoom(zoom int) Option {
	return func(s *Selector) {
		if zoom > 1 {
			s.mag.Zoom = zoom
		}
	}
}

// WithOnComplete registers the callback for a successful selection. The
// screenshot passed to it is owned by the callback from then on.
func WithOnComplete(fn func(screenshot *image.RGBA, region image.Rectangle)) Option {
	return func(s *Selector) { s.onComplete = fn }
}

// WithOnCancel registers the callback for an abandoned selection.
func WithOnCancel(fn func()) Option { return func(s *Selector) { s.onCancel = fn } }

// New creates a Selector that captures via fn when a gesture begins.
func New(fn CaptureFunc, opts ...Option) *Selector {
	s := &Selector{
		capture:       fn,
		showMagnifier: true,
		mag:           render.DefaultMagnifier,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Begin captures the screen and enters selecting mode. Calling it while a
// gesture is already active does nothing.
func (s *Selector) Begin() error {
	if s.active {
		log.Print("selector already active")
		return nil
	}
	img, err := s.capture()
	if err != nil {
		return fmt.Errorf("capture screen: %w", err)
	}
	s.screenshot = img
	s.active = true
	s.dragging = false
	s.moved = false
	s.pointer = image.Point{}
	return nil
}

// Active reports whether a gesture is in progress.
func (s *Selector) Active() bool { return s.active }

// Screenshot returns the frozen capture while the gesture is active.
func (s *Selector) Screenshot() *image.RGBA { return s.screenshot }

// selection returns the normalized drag rectangle.
func (s *Selector) selection() image.Rectangle {
	return image.Rectangle{Min: s.origin, Max: s.pointer}.Canon()
}

// HandleMouse advances the gesture and reports whether a redraw is needed.
func (s *Selector) HandleMouse(e mouse.Event) bool {
	if !s.active {
		return false
	}
	p := image.Pt(int(e.X), int(e.Y))
	switch {
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
		s.dragging = true
		s.moved = true
		s.origin = p
		s.pointer = p
		return true
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !s.dragging {
			return false
		}
		s.dragging = false
		s.pointer = p
		sel := s.selection()
		if sel.Dx() > minSelection && sel.Dy() > minSelection {
			s.complete(sel)
		} else {
			s.cancel()
		}
		return true
	case e.Direction == mouse.DirNone:
		if p == s.pointer {
			return false
		}
		s.pointer = p
		return true
	}
	return false
}

// HandleKey cancels the gesture on Escape and reports whether it did.
func (s *Selector) HandleKey(e key.Event) bool {
	if !s.active || e.Direction != key.DirPress {
		return false
	}
	if e.Code == key.CodeEscape {
		s.cancel()
		return true
	}
	return false
}

func (s *Selector) complete(sel image.Rectangle) {
	img := s.screenshot
	s.screenshot = nil
	s.active = false
	if s.onComplete != nil {
		s.onComplete(img, sel)
	}
}

func (s *Selector) cancel() {
	s.screenshot = nil
	s.active = false
	s.dragging = false
	if s.onCancel != nil {
		s.onCancel()
	}
}

// Render paints the current overlay frame onto dst.
func (s *Selector) Render(dst *image.RGBA) {
	if !s.active || s.screenshot == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), s.screenshot, s.screenshot.Bounds().Min, draw.Src)

	sel := image.Rectangle{}
	if s.dragging {
		sel = s.selection().Intersect(dst.Bounds())
	}
	dimOutside(dst, sel)

	if s.dragging {
		render.Rect(dst, sel, borderColor, 2)
		drawLabel(dst, fmt.Sprintf("%d×%d", sel.Dx(), sel.Dy()), sel)
	} else {
		if !s.moved {
			drawHint(dst)
		}
		if s.showMagnifier {
			s.mag.Draw(dst, s.screenshot, s.pointer)
		}
	}
}

// dimOutside darkens everything except sel. An empty sel dims the whole
// frame.
func dimOutside(dst *image.RGBA, sel image.Rectangle) {
	src := &image.Uniform{dimColor}
	b := dst.Bounds()
	if sel.Empty() {
		draw.Draw(dst, b, src, image.Point{}, draw.Over)
		return
	}
	bands := []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, sel.Min.Y),
		image.Rect(b.Min.X, sel.Max.Y, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, b.Max.X, sel.Max.Y),
	}
	for _, band := range bands {
		if !band.Empty() {
			draw.Draw(dst, band, src, image.Point{}, draw.Over)
		}
	}
}

// drawLabel centers "W×H" above the selection, or just inside its top edge
// when there is no room above.
func drawLabel(dst *image.RGBA, text string, sel image.Rectangle) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelFg), Face: basicfont.Face7x13}
	w := d.MeasureString(text).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()

	px := sel.Min.X + (sel.Dx()-w)/2
	py := sel.Min.Y - descent - 6
	if py-ascent-4 < dst.Bounds().Min.Y {
		py = sel.Min.Y + ascent + 6
	}
	bg := image.Rect(px-4, py-ascent-2, px+w+4, py+descent+2)
	draw.Draw(dst, bg.Intersect(dst.Bounds()), &image.Uniform{labelBg}, image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(text)
}

// drawHint shows the usage hint near the top of the screen until the first
// press.
func drawHint(dst *image.RGBA) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelFg), Face: basicfont.Face7x13}
	w := d.MeasureString(hintText).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()
	b := dst.Bounds()
	px := b.Min.X + (b.Dx()-w)/2
	py := b.Min.Y + 40
	bg := image.Rect(px-8, py-ascent-4, px+w+8, py+descent+4)
	draw.Draw(dst, bg.Intersect(b), &image.Uniform{labelBg}, image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(hintText)
}

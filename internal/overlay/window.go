package overlay

import (
	"image"
	"log"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// Run begins a gesture on sel and pumps a borderless window sized to the
// capture until the gesture completes or is cancelled. It returns once the
// window is torn down.
func Run(s screen.Screen, sel *Selector) error {
	if err := sel.Begin(); err != nil {
		return err
	}
	shot := sel.Screenshot()
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  shot.Bounds().Dx(),
		Height: shot.Bounds().Dy(),
		Title:  "Select region",
	})
	if err != nil {
		return err
	}
	defer w.Release()

	width := shot.Bounds().Dx()
	height := shot.Bounds().Dy()

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				if sel.Active() {
					sel.cancel()
				}
				return nil
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			drawOverlayFrame(s, w, sel, width, height)
		case mouse.Event:
			if sel.HandleMouse(e) {
				w.Send(paint.Event{})
			}
			if !sel.Active() {
				return nil
			}
		case key.Event:
			if sel.HandleKey(e) && !sel.Active() {
				return nil
			}
		}
	}
}

func drawOverlayFrame(s screen.Screen, w screen.Window, sel *Selector, width, height int) {
	if !sel.Active() {
		return
	}
	b, err := s.NewBuffer(image.Point{width, height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	sel.Render(b.RGBA())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

package editor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/redactshot/internal/canvas"
	"github.com/example/redactshot/internal/ocr"
)

// Tool selects the drawing operation for the next drag.
type Tool int

const (
	ToolRect Tool = iota
	ToolEllipse
	ToolLine
	ToolDashed
	ToolArrow
	ToolPen
	ToolText
	ToolMosaic
)

var toolLabels = []struct {
	label string
	tool  Tool
	rune  rune
}{
	{"X:Rect", ToolRect, 'x'},
	{"O:Ellipse", ToolEllipse, 'o'},
	{"L:Line", ToolLine, 'l'},
	{"D:Dashed", ToolDashed, 'd'},
	{"A:Arrow", ToolArrow, 'a'},
	{"B:Pen", ToolPen, 'b'},
	{"T:Text", ToolText, 't'},
	{"M:Mosaic", ToolMosaic, 'm'},
}

var palette = []color.RGBA{
	{255, 0, 0, 255},
	{255, 128, 0, 255},
	{255, 255, 0, 255},
	{0, 200, 0, 255},
	{0, 168, 255, 255},
	{0, 0, 255, 255},
	{160, 0, 255, 255},
	{0, 0, 0, 255},
	{255, 255, 255, 255},
}

var widths = []int{1, 2, 3, 5, 8}

const (
	toolbarWidth = 88
	bottomHeight = 24
	buttonHeight = 24
	swatchSize   = 18
)

var (
	backdropColor = color.RGBA{40, 40, 40, 255}
	toolbarColor  = color.RGBA{56, 56, 56, 255}
	selectedColor = color.RGBA{90, 90, 90, 255}
	labelColor    = color.RGBA{230, 230, 230, 255}
)

const hints = "Ctrl+S save | Ctrl+C copy | Ctrl+R redact | Ctrl+T copy text | Ctrl+Z undo | Q quit"

// Events posted back into the window loop from worker goroutines.
type ocrLoadedEvent struct {
	ok     bool
	reason string
}

type ocrRegionsEvent struct {
	regions []ocr.Region
}

type statusEvent struct {
	text string
}

// Run opens the editing window for a loaded session and pumps events until
// the user quits. screenSize bounds the window.
func Run(s screen.Screen, sess *Session, screenSize image.Point) error {
	if !sess.Canvas().Loaded() {
		return fmt.Errorf("no screenshot loaded")
	}
	winSize, _ := sess.FitWindow(screenSize)
	w, err := s.NewWindow(&screen.NewWindowOptions{
		Width:  winSize.X,
		Height: winSize.Y,
		Title:  "RedactShot",
	})
	if err != nil {
		return err
	}
	defer w.Release()

	width := winSize.X
	height := winSize.Y

	st := sess.DefaultStyle()
	colorIdx := 0
	for i, c := range palette {
		if c == st.Color {
			colorIdx = i
			break
		}
	}
	widthIdx := 1
	for i, n := range widths {
		if n == st.Width {
			widthIdx = i
			break
		}
	}
	style := func() canvas.Style {
		return canvas.Style{Color: palette[colorIdx], Width: widths[widthIdx]}
	}

	tool := ToolRect
	var dragging bool
	var dragStart image.Point
	var penPts []image.Point
	var textInputActive bool
	var textInput string
	var textPos image.Point
	var message string
	var messageUntil time.Time
	var confirmLoad bool
	var ocrBusy bool

	say := func(text string) {
		message = text
		log.Print(text)
		messageUntil = time.Now().Add(2 * time.Second)
		w.Send(paint.Event{})
	}

	cv := sess.Canvas()

	// Canvas coordinates for a window position.
	toCanvas := func(x, y float32) image.Point {
		return image.Pt(int(x)-toolbarWidth, int(y))
	}

	previewDrag := func(p image.Point) {
		switch tool {
		case ToolRect:
			cv.Preview(canvas.RectOp{Start: dragStart, End: p}, style())
		case ToolEllipse:
			cv.Preview(canvas.EllipseOp{Start: dragStart, End: p}, style())
		case ToolLine:
			cv.Preview(canvas.LineOp{Start: dragStart, End: p}, style())
		case ToolDashed:
			cv.Preview(canvas.DashedOp{Start: dragStart, End: p}, style())
		case ToolArrow:
			cv.Preview(canvas.ArrowOp{Start: dragStart, End: p}, style())
		case ToolMosaic:
			cv.Preview(canvas.MosaicOp{Region: image.Rectangle{Min: dragStart, Max: p}}, style())
		}
	}

	applyDrag := func(p image.Point) {
		switch tool {
		case ToolRect:
			cv.Apply(canvas.RectOp{Start: dragStart, End: p}, style())
		case ToolEllipse:
			cv.Apply(canvas.EllipseOp{Start: dragStart, End: p}, style())
		case ToolLine:
			cv.Apply(canvas.LineOp{Start: dragStart, End: p}, style())
		case ToolDashed:
			cv.Apply(canvas.DashedOp{Start: dragStart, End: p}, style())
		case ToolArrow:
			cv.Apply(canvas.ArrowOp{Start: dragStart, End: p}, style())
		case ToolMosaic:
			cv.Apply(canvas.MosaicOp{Region: image.Rectangle{Min: dragStart, Max: p}}, style())
		}
	}

	// startRecognition runs the blocking OCR call off the loop and posts the
	// regions back. The goroutine works on a snapshot taken here, on the
	// loop, so drawing can continue while the model runs.
	startRecognition := func(after string) {
		if ocrBusy {
			say("recognition already running")
			return
		}
		ocrBusy = true
		say("recognizing text...")
		snap := sess.SnapshotBitmap()
		go func() {
			regions := sess.RecognizeImage(context.Background(), snap)
			if after == "redact" {
				w.Send(ocrRegionsEvent{regions: regions})
				return
			}
			// Copy path: clipboard write can happen off the loop.
			if len(regions) == 0 {
				w.Send(statusEvent{text: "no text recognized"})
				return
			}
			n, err := sess.CopyText(regions)
			if err != nil {
				w.Send(statusEvent{text: fmt.Sprintf("copy text: %v", err)})
				return
			}
			w.Send(statusEvent{text: fmt.Sprintf("copied text from %d regions", n)})
		}()
	}

	// ensureAdapter gates the OCR actions on a loaded model. The first press
	// prompts, the second actually loads.
	ensureAdapter := func() bool {
		a := sess.Adapter()
		if a == nil {
			say("text recognition is not configured")
			return false
		}
		if a.Available() {
			return true
		}
		if a.Loading() {
			say("recognition model is still loading")
			return false
		}
		if !confirmLoad {
			confirmLoad = true
			say("recognition model not loaded, press again to load it")
			return false
		}
		confirmLoad = false
		say("loading recognition model...")
		a.Load(func(ok bool, reason string) {
			w.Send(ocrLoadedEvent{ok: ok, reason: reason})
		})
		return false
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case ocrLoadedEvent:
			if e.ok {
				say("recognition model ready")
			} else {
				say(fmt.Sprintf("recognition load failed: %s", e.reason))
			}
		case ocrRegionsEvent:
			ocrBusy = false
			matches := cv.DetectAndRedact(e.regions, nil)
			if len(matches) == 0 {
				say("no sensitive data found")
			} else {
				say(fmt.Sprintf("redacted %d match(es)", len(matches)))
			}
		case statusEvent:
			ocrBusy = false
			say(e.text)
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			drawEditorFrame(s, w, cv.Bitmap(), frameState{
				width: width, height: height,
				tool: tool, colorIdx: colorIdx, widthIdx: widthIdx,
				textInputActive: textInputActive, textInput: textInput, textPos: textPos,
				message: message, messageUntil: messageUntil,
			})
		case mouse.Event:
			if int(e.X) < toolbarWidth {
				if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
					if handleToolbarClick(int(e.X), int(e.Y), &tool, &colorIdx, &widthIdx) {
						w.Send(paint.Event{})
					}
				}
				continue
			}
			p := toCanvas(e.X, e.Y)
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				confirmLoad = false
				if tool == ToolText {
					textInputActive = true
					textInput = ""
					textPos = p
					w.Send(paint.Event{})
					continue
				}
				dragging = true
				dragStart = p
				if tool == ToolPen {
					penPts = penPts[:0]
					penPts = append(penPts, p)
				}
			case e.Direction == mouse.DirNone && dragging:
				if tool == ToolPen {
					penPts = append(penPts, p)
					cv.Preview(canvas.PenOp{Points: penPts}, style())
				} else {
					previewDrag(p)
				}
				w.Send(paint.Event{})
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease && dragging:
				dragging = false
				if tool == ToolPen {
					penPts = append(penPts, p)
					cv.Apply(canvas.PenOp{Points: penPts}, style())
				} else {
					applyDrag(p)
				}
				w.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if textInputActive {
				switch e.Code {
				case key.CodeReturnEnter:
					cv.Apply(canvas.TextOp{At: textPos, Value: textInput}, style())
					textInputActive = false
					w.Send(paint.Event{})
					continue
				case key.CodeEscape:
					textInputActive = false
					w.Send(paint.Event{})
					continue
				case key.CodeDeleteBackspace:
					if len(textInput) > 0 {
						textInput = textInput[:len(textInput)-1]
						w.Send(paint.Event{})
					}
					continue
				}
				if e.Rune > 0 {
					textInput += string(e.Rune)
					w.Send(paint.Event{})
				}
				continue
			}

			if e.Modifiers&key.ModControl != 0 {
				confirmLoadBefore := confirmLoad
				switch e.Rune {
				case 'z', 'Z':
					if cv.Undo() {
						w.Send(paint.Event{})
					}
				case 'y', 'Y':
					if cv.Redo() {
						w.Send(paint.Event{})
					}
				case 's', 'S':
					path, err := sess.Save()
					if err != nil {
						say(fmt.Sprintf("save: %v", err))
						continue
					}
					say(fmt.Sprintf("saved %s", path))
				case 'c', 'C':
					if err := sess.CopyToClipboard(); err != nil {
						say(fmt.Sprintf("copy: %v", err))
						continue
					}
					say("image copied to clipboard")
				case 'r', 'R':
					if ensureAdapter() {
						startRecognition("redact")
					}
					continue
				case 't', 'T':
					if ensureAdapter() {
						startRecognition("copytext")
					}
					continue
				}
				// Any other action clears a pending load confirmation.
				if confirmLoadBefore {
					confirmLoad = false
				}
				continue
			}

			confirmLoad = false
			switch e.Rune {
			case 'q', 'Q':
				return nil
			default:
				for _, tl := range toolLabels {
					if e.Rune == tl.rune || e.Rune == tl.rune-'a'+'A' {
						tool = tl.tool
						dragging = false
						cv.CancelPreview()
						w.Send(paint.Event{})
						break
					}
				}
			}
			if e.Rune == -1 && e.Code == key.CodeEscape {
				return nil
			}
		}
	}
}

type frameState struct {
	width, height   int
	tool            Tool
	colorIdx        int
	widthIdx        int
	textInputActive bool
	textInput       string
	textPos         image.Point
	message         string
	messageUntil    time.Time
}

func drawEditorFrame(s screen.Screen, w screen.Window, bitmap *image.RGBA, st frameState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()

	draw.Draw(dst, dst.Bounds(), &image.Uniform{backdropColor}, image.Point{}, draw.Src)
	draw.Draw(dst, bitmap.Bounds().Add(image.Pt(toolbarWidth, 0)), bitmap, bitmap.Bounds().Min, draw.Src)

	drawToolbar(dst, st)
	drawBottomBar(dst, st.width, st.height)

	if st.textInputActive {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(palette[st.colorIdx]), Face: basicfont.Face7x13}
		d.Dot = fixed.P(st.textPos.X+toolbarWidth, st.textPos.Y)
		d.DrawString(st.textInput + "|")
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, st.message)
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawToolbar(dst *image.RGBA, st frameState) {
	bar := image.Rect(0, 0, toolbarWidth, dst.Bounds().Dy())
	draw.Draw(dst, bar, &image.Uniform{toolbarColor}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: basicfont.Face7x13}
	for i, tl := range toolLabels {
		r := image.Rect(0, i*buttonHeight, toolbarWidth, (i+1)*buttonHeight)
		if tl.tool == st.tool {
			draw.Draw(dst, r, &image.Uniform{selectedColor}, image.Point{}, draw.Src)
		}
		d.Dot = fixed.P(6, r.Min.Y+16)
		d.DrawString(tl.label)
	}

	// Palette swatches below the tool buttons.
	top := len(toolLabels)*buttonHeight + 8
	cols := toolbarWidth / swatchSize
	for i, c := range palette {
		x := (i % cols) * swatchSize
		y := top + (i/cols)*swatchSize
		r := image.Rect(x+2, y+2, x+swatchSize-2, y+swatchSize-2)
		draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
		if i == st.colorIdx {
			drawBorder(dst, r.Inset(-2), labelColor)
		}
	}

	// Stroke width choices.
	rows := (len(palette) + cols - 1) / cols
	top += rows*swatchSize + 8
	for i, n := range widths {
		r := image.Rect(8, top+i*16+7-n/2, toolbarWidth-8, top+i*16+7-n/2+n)
		draw.Draw(dst, r, &image.Uniform{labelColor}, image.Point{}, draw.Src)
		if i == st.widthIdx {
			drawBorder(dst, image.Rect(4, top+i*16, toolbarWidth-4, top+(i+1)*16), labelColor)
		}
	}
}

func drawBottomBar(dst *image.RGBA, width, height int) {
	bar := image.Rect(0, height-bottomHeight, width, height)
	draw.Draw(dst, bar, &image.Uniform{toolbarColor}, image.Point{}, draw.Src)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(labelColor), Face: basicfont.Face7x13}
	d.Dot = fixed.P(8, height-8)
	d.DrawString(hints)
}

func drawMessage(dst *image.RGBA, width, height int, message string) {
	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	wmsg := d.MeasureString(message).Ceil()
	ascent := basicfont.Face7x13.Metrics().Ascent.Ceil()
	descent := basicfont.Face7x13.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	drawBorder(dst, rect, color.RGBA{0, 0, 0, 255})
	d.Dot = fixed.P(px, py)
	d.DrawString(message)
}

func drawBorder(dst *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}

// handleToolbarClick maps a toolbar press to a tool, color or width change.
func handleToolbarClick(x, y int, tool *Tool, colorIdx, widthIdx *int) bool {
	if idx := y / buttonHeight; idx < len(toolLabels) {
		*tool = toolLabels[idx].tool
		return true
	}
	top := len(toolLabels)*buttonHeight + 8
	cols := toolbarWidth / swatchSize
	rows := (len(palette) + cols - 1) / cols
	if y >= top && y < top+rows*swatchSize {
		idx := ((y-top)/swatchSize)*cols + x/swatchSize
		if idx >= 0 && idx < len(palette) {
			*colorIdx = idx
			return true
		}
		return false
	}
	top += rows*swatchSize + 8
	if y >= top {
		idx := (y - top) / 16
		if idx >= 0 && idx < len(widths) {
			*widthIdx = idx
			return true
		}
	}
	return false
}

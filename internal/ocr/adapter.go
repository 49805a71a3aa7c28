// Package ocr wraps an external text-recognition engine behind a small
// adapter. The engine is expensive to initialize, so the adapter loads it
// lazily, exactly once, off the interactive goroutine, and posts completion
// back onto it.
package ocr

import (
	"context"
	"image"
	"log"
	"sync"
)

// Region is one recognized line of text with its location on the image.
type Region struct {
	Text       string
	Confidence float64
	Rect       image.Rectangle
}

// Engine is the boundary to the recognition capability itself.
type Engine interface {
	// Init prepares the engine. Called at most once per successful load.
	Init(ctx context.Context) error
	// ModelsExist reports whether the engine's models are already present
	// locally, without initializing anything.
	ModelsExist(ctx context.Context) bool
	// Recognize returns every text region found on img.
	Recognize(ctx context.Context, img image.Image) ([]Region, error)
}

type loadState int

const (
	stateUnloaded loadState = iota
	stateLoading
	stateReady
)

// Adapter owns the engine's lifecycle. All exported methods are safe to call
// from the interactive goroutine; Load runs initialization on its own
// goroutine and delivers the callback through post.
type Adapter struct {
	engine Engine
	// post schedules fn onto the interactive goroutine. The zero value runs
	// callbacks inline, which tests rely on.
	post func(fn func())

	mu      sync.Mutex
	state   loadState
	lastErr string
}

// NewAdapter creates an adapter around engine. post delivers load callbacks
// back to the caller's event loop; pass nil to run them on the loading
// goroutine.
func NewAdapter(engine Engine, post func(func())) *Adapter {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Adapter{engine: engine, post: post}
}

// Available reports whether Recognize will do real work.
func (a *Adapter) Available() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateReady
}

// Loading reports whether an initialization is in flight. Recognition
// actions stay disabled while this is true.
func (a *Adapter) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == stateLoading
}

// LastError returns the reason the most recent load failed, if any.
func (a *Adapter) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// CheckModelsExist reports whether the engine's models are present locally.
func (a *Adapter) CheckModelsExist(ctx context.Context) bool {
	return a.engine.ModelsExist(ctx)
}

// Load initializes the engine if needed and invokes cb exactly once with the
// outcome. When the adapter is already ready, cb fires immediately with
// success. When a load is already in flight, the call is a no-op and cb is
// never invoked; the caller that started the load receives the only
// callback.
func (a *Adapter) Load(cb func(ok bool, reason string)) {
	if cb == nil {
		cb = func(bool, string) {}
	}
	a.mu.Lock()
	switch a.state {
	case stateReady:
		a.mu.Unlock()
		a.post(func() { cb(true, "") })
		return
	case stateLoading:
		a.mu.Unlock()
		log.Print("ocr: load already in progress")
		return
	}
	a.state = stateLoading
	a.lastErr = ""
	a.mu.Unlock()

	go func() {
		err := a.engine.Init(context.Background())

		a.mu.Lock()
		if err != nil {
			a.state = stateUnloaded
			a.lastErr = err.Error()
		} else {
			a.state = stateReady
		}
		a.mu.Unlock()

		if err != nil {
			log.Printf("ocr: load failed: %v", err)
			a.post(func() { cb(false, err.Error()) })
			return
		}
		a.post(func() { cb(true, "") })
	}()
}

// Recognize returns the text regions found on img. On an unavailable
// adapter it returns an empty result instead of failing; recognition errors
// are logged and reported the same way.
func (a *Adapter) Recognize(ctx context.Context, img image.Image) []Region {
	if !a.Available() {
		return nil
	}
	regions, err := a.engine.Recognize(ctx, img)
	if err != nil {
		log.Printf("ocr: recognize: %v", err)
		return nil
	}
	return regions
}

// AllText joins every recognized region's text with newlines.
func AllText(regions []Region) string {
	out := ""
	for i, r := range regions {
		if i > 0 {
			out += "\n"
		}
		out += r.Text
	}
	return out
}

// Package capture grabs the desktop for the region selector. On Wayland it
// goes through the XDG desktop portal; on X11 it reads the root window
// directly and falls back to the portal when that fails.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"
)

// Options control how the desktop is captured.
type Options struct {
	IncludeCursor bool
}

// MonitorInfo describes an individual monitor in the display layout.
type MonitorInfo struct {
	Index   int
	Name    string
	Rect    image.Rectangle
	Primary bool
}

var errNoMonitors = errors.New("no monitors available")

// Screen captures the entire desktop as one bitmap spanning all monitors.
func Screen(opts Options) (*image.RGBA, error) {
	if runningOnWayland() {
		return portalScreenshot(false, opts)
	}
	img, directErr := grabRootWindow()
	if directErr == nil {
		return img, nil
	}
	shot, err := portalScreenshot(false, opts)
	if err != nil {
		return nil, fmt.Errorf("x11 capture: %v; portal fallback failed: %w", directErr, err)
	}
	return shot, nil
}

// Monitor captures a single monitor resolved by selector.
func Monitor(selector string, opts Options) (*image.RGBA, error) {
	shot, err := Screen(opts)
	if err != nil {
		return nil, err
	}
	monitors, err := Monitors()
	if err != nil {
		return nil, err
	}
	mon, err := FindMonitor(monitors, selector)
	if err != nil {
		return nil, err
	}
	return Crop(shot, mon.Rect)
}

// Monitors retrieves the display layout using the platform backend.
func Monitors() ([]MonitorInfo, error) {
	return listMonitors()
}

// Crop copies rect out of src into a zero-origin bitmap.
func Crop(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// FindMonitor resolves a monitor selector against the provided list. The
// selector is an index, "#index", "primary" or a substring of the output
// name; empty picks the first monitor.
func FindMonitor(monitors []MonitorInfo, selector string) (MonitorInfo, error) {
	if len(monitors) == 0 {
		return MonitorInfo{}, errNoMonitors
	}
	if selector == "" {
		return monitors[0], nil
	}
	lower := strings.ToLower(strings.TrimSpace(selector))
	if lower == "primary" {
		for _, mon := range monitors {
			if mon.Primary {
				return mon, nil
			}
		}
		return monitors[0], nil
	}
	if strings.HasPrefix(lower, "#") {
		lower = lower[1:]
	}
	if idx, err := strconv.Atoi(lower); err == nil {
		if idx < 0 || idx >= len(monitors) {
			return MonitorInfo{}, fmt.Errorf("monitor index %d out of range", idx)
		}
		return monitors[idx], nil
	}
	for _, mon := range monitors {
		if strings.Contains(strings.ToLower(mon.Name), lower) {
			return mon, nil
		}
	}
	return MonitorInfo{}, fmt.Errorf("monitor %q not found", selector)
}

package history

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Thumbnail bounds. Listings show small previews, so the source is shrunk
// to fit while keeping its aspect ratio.
const (
	thumbWidth  = 200
	thumbHeight = 150
)

// WriteThumbnail shrinks img and writes it next to the saved screenshot
// under a thumbs directory. It returns the thumbnail path.
func WriteThumbnail(img image.Image, savedPath string) (string, error) {
	dir := filepath.Join(filepath.Dir(savedPath), "thumbs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create thumbs dir: %w", err)
	}
	base := filepath.Base(savedPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	path := filepath.Join(dir, base+".png")

	thumb := imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)
	if err := imaging.Save(thumb, path); err != nil {
		return "", fmt.Errorf("write thumbnail: %w", err)
	}
	return path, nil
}

package config

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/redactshot/internal/ocr"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// OCR holds recognition engine settings.
type OCR struct {
	Host  string
	Model string
}

// Config holds the application configuration.
type Config struct {
	SaveDir       string
	SaveFormat    string
	DefaultColor  color.RGBA
	LineWidth     int
	AutoCopy      bool
	ShowMagnifier bool
	MagnifierZoom int
	MaxHistory    int
	Notify        Notify
	OCR           OCR
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		SaveFormat:    "png",
		DefaultColor:  color.RGBA{255, 0, 0, 255},
		LineWidth:     2,
		ShowMagnifier: true,
		MagnifierZoom: 4,
		MaxHistory:    50,
		OCR: OCR{
			Host:  ocr.DefaultHost,
			Model: ocr.DefaultModel,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "save_format = %s\n", c.SaveFormat)
	fmt.Fprintf(&sb, "default_color = %s\n", toHex(c.DefaultColor))
	fmt.Fprintf(&sb, "line_width = %d\n", c.LineWidth)
	fmt.Fprintf(&sb, "auto_copy = %v\n", c.AutoCopy)
	fmt.Fprintf(&sb, "show_magnifier = %v\n", c.ShowMagnifier)
	fmt.Fprintf(&sb, "magnifier_zoom = %d\n", c.MagnifierZoom)
	fmt.Fprintf(&sb, "max_history = %d\n", c.MaxHistory)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[ocr]\n")
	fmt.Fprintf(&sb, "host = %s\n", c.OCR.Host)
	fmt.Fprintf(&sb, "model = %s\n", c.OCR.Model)
	sb.WriteString("\n")

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

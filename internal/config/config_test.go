package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
save_dir = /tmp/screens
save_format = webp
default_color = #00FF00
line_width = 4
auto_copy = true
show_magnifier = false
magnifier_zoom = 6
max_history = 20

[notify]
save = true
copy = false

[ocr]
host = http://ocr.local:11434
model = llava
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.SaveFormat != "webp" {
		t.Errorf("Expected save_format webp, got %q", cfg.SaveFormat)
	}
	if cfg.DefaultColor != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Unexpected default_color: %+v", cfg.DefaultColor)
	}
	if cfg.LineWidth != 4 {
		t.Errorf("Expected line_width 4, got %d", cfg.LineWidth)
	}
	if !cfg.AutoCopy {
		t.Error("Expected auto_copy to be true")
	}
	if cfg.ShowMagnifier {
		t.Error("Expected show_magnifier to be false")
	}
	if cfg.MagnifierZoom != 6 {
		t.Errorf("Expected magnifier_zoom 6, got %d", cfg.MagnifierZoom)
	}
	if cfg.MaxHistory != 20 {
		t.Errorf("Expected max_history 20, got %d", cfg.MaxHistory)
	}
	if !cfg.Notify.Save {
		t.Error("Expected notify.save to be true")
	}
	if cfg.Notify.Copy {
		t.Error("Expected notify.copy to be false")
	}
	if cfg.OCR.Host != "http://ocr.local:11434" {
		t.Errorf("Unexpected ocr.host: %q", cfg.OCR.Host)
	}
	if cfg.OCR.Model != "llava" {
		t.Errorf("Unexpected ocr.model: %q", cfg.OCR.Model)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("# empty file\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := New()
	if *cfg != *want {
		t.Errorf("empty config differs from defaults:\n got %+v\nwant %+v", cfg, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"line_width = many\n",
		"default_color = red\n",
		"default_color = #12345\n",
		"save_format = bmp\n",
		"[notify]\nsave = sometimes\n",
	}
	for _, input := range cases {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", strings.TrimSpace(input))
		}
	}
}

func TestParseClamps(t *testing.T) {
	cfg, err := Parse(strings.NewReader("line_width = 0\nmagnifier_zoom = 1\nmax_history = -5\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.LineWidth != 1 {
		t.Errorf("line_width clamped to %d, want 1", cfg.LineWidth)
	}
	if cfg.MagnifierZoom != 2 {
		t.Errorf("magnifier_zoom clamped to %d, want 2", cfg.MagnifierZoom)
	}
	if cfg.MaxHistory != 0 {
		t.Errorf("max_history clamped to %d, want 0", cfg.MaxHistory)
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/shots
save_format = jpg
default_color = #3366CC80
line_width = 3
auto_copy = true
show_magnifier = true
magnifier_zoom = 4
max_history = 10

[notify]
save = true
copy = false

[ocr]
host = http://127.0.0.1:11434
model = minicpm-v
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare
	if *cfg != *cfg2 {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", cfg2, cfg)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("line_width = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LineWidth != 7 {
		t.Errorf("line_width %d, want 7", cfg.LineWidth)
	}
}

func TestLoaderMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader("1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *New() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

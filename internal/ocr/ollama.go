package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

const (
	// DefaultModel is the vision model asked to transcribe the image.
	DefaultModel = "minicpm-v"
	// DefaultHost is the local ollama endpoint.
	DefaultHost = "http://127.0.0.1:11434"

	recognizeTimeout = 300 * time.Second
)

const recognizePrompt = `Read all text visible in this image. Respond with a JSON array only, one element per line of text, each shaped like {"text": "...", "confidence": 0.95, "box": [[x0,y0],[x1,y1],[x2,y2],[x3,y3]]} where box lists the corner pixel coordinates of the line. Use an empty array if there is no text.`

// Ollama recognizes text by asking a local vision model to transcribe the
// image with per-line bounding boxes.
type Ollama struct {
	host  string
	model string

	client *api.Client
}

// NewOllama creates an engine talking to host (empty for the default) using
// the named vision model.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		model = DefaultModel
	}
	return &Ollama{host: host, model: model}
}

// Init connects to the ollama daemon and verifies the configured model is
// available.
func (o *Ollama) Init(ctx context.Context) error {
	parsed, err := url.Parse(o.host)
	if err != nil {
		return fmt.Errorf("ocr host %q: %w", o.host, err)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	client := api.NewClient(base, http.DefaultClient)

	resp, err := client.List(ctx)
	if err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", o.host, err)
	}
	if !hasModel(resp, o.model) {
		return fmt.Errorf("model %q not found; run: ollama pull %s", o.model, o.model)
	}
	o.client = client
	return nil
}

// ModelsExist reports whether the configured model is already pulled.
func (o *Ollama) ModelsExist(ctx context.Context) bool {
	parsed, err := url.Parse(o.host)
	if err != nil {
		return false
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	client := api.NewClient(base, http.DefaultClient)
	resp, err := client.List(ctx)
	if err != nil {
		return false
	}
	return hasModel(resp, o.model)
}

func hasModel(resp *api.ListResponse, model string) bool {
	if resp == nil {
		return false
	}
	for _, m := range resp.Models {
		if m.Name == model || strings.TrimSuffix(m.Name, ":latest") == model {
			return true
		}
	}
	return false
}

// Recognize sends the image to the vision model and parses the JSON reply
// into regions. Lines the model returns without a usable box are kept with a
// zero rectangle.
func (o *Ollama) Recognize(ctx context.Context, img image.Image) ([]Region, error) {
	if o.client == nil {
		return nil, fmt.Errorf("ollama engine not initialized")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, recognizeTimeout)
		defer cancel()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{{
			Role:    "user",
			Content: recognizePrompt,
			Images:  []api.ImageData{api.ImageData(buf.Bytes())},
		}},
		Stream: &stream,
	}

	var reply string
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	return parseRegions(reply)
}

type wireRegion struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Box        [][2]imageF `json:"box"`
}

type imageF float64

// parseRegions decodes the model's JSON reply, tolerating markdown code
// fences and prose around the array.
func parseRegions(raw string) ([]Region, error) {
	raw = stripFences(raw)
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		// No array in the reply means no text was found.
		return nil, nil
	}
	var wire []wireRegion
	if err := json.Unmarshal([]byte(raw[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("parse ocr reply: %w", err)
	}
	regions := make([]Region, 0, len(wire))
	for _, w := range wire {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		regions = append(regions, Region{
			Text:       w.Text,
			Confidence: w.Confidence,
			Rect:       boxBounds(w.Box),
		})
	}
	return regions, nil
}

// boxBounds converts a corner quadrilateral to its bounding rectangle.
func boxBounds(box [][2]imageF) image.Rectangle {
	if len(box) == 0 {
		return image.Rectangle{}
	}
	minX, minY := float64(box[0][0]), float64(box[0][1])
	maxX, maxY := minX, minY
	for _, p := range box[1:] {
		x, y := float64(p[0]), float64(p[1])
		if x < minX {
			minX = x
		}
		if y < minY {
			minY = y
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
	}
	return image.Rect(int(minX), int(minY), int(maxX), int(maxY))
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

package vision

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/visualmatch/backend/internal/domain"
)

// analysisPrompt instructs the model to return the six-field description
// as strict JSON. Models drift from this regularly, which is why the
// adapter's tolerant parse cascade exists downstream.
const analysisPrompt = "You are an expert visual merchandiser. Analyze the image and return STRICT JSON only with keys: " +
	"summary (2-3 sentences), category (single word or short phrase), colors (array of simple color names), " +
	"materials (array), style (array), objects (array), suggested_tags (array of 5-12 short tags). " +
	"No markdown, no extra text - JSON only."

// Options configures a vision provider
type Options struct {
	Provider          string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewClient builds the vision provider selected by Options.Provider
func NewClient(opts Options) (domain.VisionClient, error) {
	switch opts.Provider {
	case "gemini":
		return NewGeminiClient(opts), nil
	case "openai":
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", opts.Provider)
	}
}

// toVisionResult wraps raw model text into the result union: when the text
// is already a well-formed analysis object it is decoded here, otherwise
// the raw text is handed to the adapter's tolerant parse cascade.
func toVisionResult(text string) *domain.VisionResult {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") {
		var analysis domain.Analysis
		if err := json.Unmarshal([]byte(trimmed), &analysis); err == nil {
			return &domain.VisionResult{Structured: &analysis}
		}
	}

	return &domain.VisionResult{RawText: text}
}

// imageFormat converts a MIME type ("image/png") to the bare format name
// the Gemini SDK expects ("png")
func imageFormat(mimeType string) string {
	return strings.TrimPrefix(mimeType, "image/")
}

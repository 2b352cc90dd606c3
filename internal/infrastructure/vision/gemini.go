package vision

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/visualmatch/backend/internal/domain"
)

// defaultGeminiModel is the vision model used when none is configured
const defaultGeminiModel = "gemini-2.0-flash-exp"

// GeminiClient analyzes images with the Google Gemini API
type GeminiClient struct {
	apiKey      string
	model       string
	timeout     time.Duration
	rateLimiter *rate.Limiter
}

// NewGeminiClient creates a Gemini vision client
func NewGeminiClient(opts Options) *GeminiClient {
	model := opts.Model
	if model == "" {
		model = defaultGeminiModel
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rpm := opts.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &GeminiClient{
		apiKey:      opts.APIKey,
		model:       model,
		timeout:     timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
	}
}

// Provider returns the provider name
func (c *GeminiClient) Provider() string { return "gemini" }

// AnalyzeImage sends the image to Gemini with the analysis prompt and
// returns the model output. API failures (network, auth, quota, timeout)
// wrap ErrVisionUnavailable; no retries happen here.
func (c *GeminiClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*domain.VisionResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", domain.ErrVisionUnavailable, err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.model)
	model.SetTemperature(0.2)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Text(analysisPrompt),
		genai.ImageData(imageFormat(mimeType), imageData),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionUnavailable, err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates returned from gemini", domain.ErrVisionUnavailable)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: empty content returned from gemini", domain.ErrVisionUnavailable)
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		log.Printf("[VISION] gemini returned non-text part %T", candidate.Content.Parts[0])
		return nil, fmt.Errorf("%w: unexpected response format from gemini", domain.ErrVisionUnavailable)
	}

	return toVisionResult(string(txt)), nil
}

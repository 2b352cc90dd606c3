package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/visualmatch/backend/internal/domain"
)

// defaultOpenAIModel is the vision-capable model used when none is configured
const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient analyzes images with the OpenAI chat completions API
type OpenAIClient struct {
	client      *openai.Client
	model       string
	timeout     time.Duration
	rateLimiter *rate.Limiter
}

// NewOpenAIClient creates an OpenAI vision client
func NewOpenAIClient(opts Options) *OpenAIClient {
	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rpm := opts.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts.APIKey),
		model:       model,
		timeout:     timeout,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 5),
	}
}

// newOpenAIClientWithConfig is used by tests to point the client at a mock server
func newOpenAIClientWithConfig(cfg openai.ClientConfig, opts Options) *OpenAIClient {
	c := NewOpenAIClient(opts)
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

// Provider returns the provider name
func (c *OpenAIClient) Provider() string { return "openai" }

// AnalyzeImage sends the image as a base64 data URL chat part together
// with the analysis prompt. API failures wrap ErrVisionUnavailable.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*domain.VisionResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: analysisPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURL,
						},
					},
				},
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no completion choices returned", domain.ErrVisionUnavailable)
	}

	return toVisionResult(resp.Choices[0].Message.Content), nil
}

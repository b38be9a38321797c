// Package llm wraps the Gemini API behind a tiered client interface so
// stages ask for a capability level instead of a model name.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is the generation surface the stages depend on
type Client interface {
	// GenerateJSON produces a JSON document from the prompt at the given
	// tier. Temperature is per-call: creative stages run hotter than
	// extraction-style ones.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier, temperature float32) (string, error)
	// GetModel reports which provider model backs a tier
	GetModel(tier ModelTier) string
	// Close releases the underlying provider connection
	Close() error
}

// NewClient builds a client for the configured provider. A nil config
// uses the defaults.
func NewClient(ctx context.Context, cfg *Config, apiKey string) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	inner, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{inner: inner, cfg: cfg}, nil
}

type geminiClient struct {
	inner *genai.Client
	cfg   *Config
}

func (c *geminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, temperature float32) (string, error) {
	name := c.cfg.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.inner.GenerativeModel(name)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *geminiClient) GetModel(tier ModelTier) string {
	return c.cfg.GetModel(tier)
}

func (c *geminiClient) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}

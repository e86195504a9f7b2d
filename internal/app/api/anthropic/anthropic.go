package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Generator calls the Anthropic Messages API.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewGenerator creates an Anthropic-backed generator. The SDK's own retries
// are disabled; a failed unit is skipped, not retried.
func NewGenerator(apiKey, model, baseURL string, maxTokens int) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key not provided")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := anthropic.NewClient(opts...)

	if maxTokens <= 0 {
		maxTokens = 2048
	}

	return &Generator{client: &client, model: model, maxTokens: maxTokens}, nil
}

// Generate sends prompt as one user message and concatenates the text blocks.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("messages API error: %w", err)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	if content.Len() == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return strings.TrimSpace(content.String()), nil
}

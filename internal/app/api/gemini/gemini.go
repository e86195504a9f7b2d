package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generator calls the Gemini API through one client created per process.
type Generator struct {
	client    *genai.Client
	model     string
	maxTokens int
}

// NewGenerator creates the Gemini client. baseURL overrides the API host.
func NewGenerator(ctx context.Context, apiKey, model, baseURL string, maxTokens int) (*Generator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Generator{client: client, model: model, maxTokens: maxTokens}, nil
}

// Generate sends prompt as a single user turn and joins the text parts of the
// first candidate.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if g.maxTokens > 0 {
		config = &genai.GenerateContentConfig{MaxOutputTokens: int32(g.maxTokens)}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return strings.TrimSpace(text.String()), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Generator sends one user message per prompt to the chat completions API.
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewGenerator creates a chat-backed generator.
func NewGenerator(client *openai.Client, model string, maxTokens int) *Generator {
	return &Generator{client: client, model: model, maxTokens: maxTokens}
}

// Generate returns the first choice's content.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

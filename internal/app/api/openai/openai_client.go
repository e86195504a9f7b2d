package openai

import (
	"github.com/sashabaranov/go-openai"
)

// NewClient builds a go-openai client. baseURL points at an OpenAI-compatible
// endpoint; empty keeps api.openai.com.
func NewClient(apiKey string, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

package whisper

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client   *openai.Client
	model    string
	language string
	prompt   string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. An empty
// model selects whisper-1; language "auto" or "" lets the API detect it.
func NewRemoteTranscriber(client *openai.Client, model, language, prompt string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	if language == "auto" {
		language = ""
	}
	return &RemoteTranscriber{client: client, model: model, language: language, prompt: prompt}
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: inputFilePath,
		Language: rt.language,
		Prompt:   rt.prompt,
		Format:   openai.AudioResponseFormatJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}

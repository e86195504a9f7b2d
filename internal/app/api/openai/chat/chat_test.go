package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaiclient "meeting-recap/internal/app/api/openai"
)

func newChatServer(t *testing.T, reply string, captured *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewDecoder(r.Body).Decode(captured)

		resp := openai.ChatCompletionResponse{}
		if reply != "" {
			resp.Choices = []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply}},
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerate(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := newChatServer(t, "\n- Ship it (Alice, Friday)\n", &captured)
	defer server.Close()

	g := NewGenerator(openaiclient.NewClient("sk-test-1234567890abcdef", server.URL+"/v1"), "gpt-4o-mini", 512)
	got, err := g.Generate(context.Background(), "list the action items")
	require.NoError(t, err)

	assert.Equal(t, "- Ship it (Alice, Friday)", got)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 512, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, captured.Messages[0].Role)
	assert.Equal(t, "list the action items", captured.Messages[0].Content)
}

func TestGenerateNoChoices(t *testing.T) {
	var captured openai.ChatCompletionRequest
	server := newChatServer(t, "", &captured)
	defer server.Close()

	g := NewGenerator(openaiclient.NewClient("sk-test-1234567890abcdef", server.URL+"/v1"), "gpt-4o-mini", 0)
	_, err := g.Generate(context.Background(), "summarize")
	assert.Error(t, err)
}

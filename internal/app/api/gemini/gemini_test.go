package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeminiServer(t *testing.T, body string, status int, gotPrompt *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if json.Unmarshal(raw, &req) == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			*gotPrompt = req.Contents[0].Parts[0].Text
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGenerate(t *testing.T) {
	var prompt string
	server := newGeminiServer(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":"The team "},{"text":"shipped.\n"}]}}]}`, http.StatusOK, &prompt)
	defer server.Close()

	g, err := NewGenerator(context.Background(), "AIzaTest-1234567890abcdef1234567890", "gemini-1.5-flash-latest", server.URL, 0)
	require.NoError(t, err)

	got, err := g.Generate(context.Background(), "Please provide a concise summary")
	require.NoError(t, err)
	assert.Equal(t, "The team shipped.", got)
	assert.Equal(t, "Please provide a concise summary", prompt)
}

func TestGenerateEmptyCandidates(t *testing.T) {
	var prompt string
	server := newGeminiServer(t, `{"candidates":[]}`, http.StatusOK, &prompt)
	defer server.Close()

	g, err := NewGenerator(context.Background(), "AIzaTest-1234567890abcdef1234567890", "gemini-1.5-flash-latest", server.URL, 256)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "summarize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateAPIError(t *testing.T) {
	var prompt string
	server := newGeminiServer(t, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, http.StatusTooManyRequests, &prompt)
	defer server.Close()

	g, err := NewGenerator(context.Background(), "AIzaTest-1234567890abcdef1234567890", "gemini-1.5-flash-latest", server.URL, 0)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "summarize")
	assert.Error(t, err)
}

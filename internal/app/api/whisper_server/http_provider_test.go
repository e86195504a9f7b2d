package whisper_server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "meeting-recap/internal/app/errors"
	"meeting-recap/internal/app/testutil"
)

func createMockWhisperServer(t *testing.T, loads *int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/inference":
			if err := r.ParseMultipartForm(10 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			content, _ := io.ReadAll(file)
			file.Close()

			if string(content) == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("decoder crashed"))
				return
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(WhisperServerResponse{
				Text:     "  transcript of " + header.Filename + " in " + r.FormValue("language") + "\n",
				Language: r.FormValue("language"),
			})
		case "/load":
			if err := r.ParseMultipartForm(1 << 20); err != nil || r.FormValue("model") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			atomic.AddInt32(loads, 1)
			w.WriteHeader(http.StatusOK)
		case "/":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestTranscript(t *testing.T) {
	var loads int32
	server := createMockWhisperServer(t, &loads)
	defer server.Close()

	input := testutil.WriteFile(t, t.TempDir(), "Call.wav", "audio")

	wsp := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL + "/", Language: "en"}, zap.NewNop())
	got, err := wsp.Transcript(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "transcript of Call.wav in en", got)
}

func TestTranscriptServerError(t *testing.T) {
	var loads int32
	server := createMockWhisperServer(t, &loads)
	defer server.Close()

	input := testutil.WriteFile(t, t.TempDir(), "Call.wav", "fail")

	wsp := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL}, zap.NewNop())
	_, err := wsp.Transcript(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRequestFailed)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "decoder crashed")
}

func TestTranscriptMissingFile(t *testing.T) {
	wsp := NewWhisperServerProvider(WhisperServerConfig{BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
	_, err := wsp.Transcript(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestPrepareLoadsModelOnce(t *testing.T) {
	var loads int32
	server := createMockWhisperServer(t, &loads)
	defer server.Close()

	wsp := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL, Model: "models/ggml-large-v3.bin"}, zap.NewNop())
	require.NoError(t, wsp.Prepare(context.Background()))
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestPrepareWithoutModelChecksHealth(t *testing.T) {
	var loads int32
	server := createMockWhisperServer(t, &loads)

	wsp := NewWhisperServerProvider(WhisperServerConfig{BaseURL: server.URL}, zap.NewNop())
	require.NoError(t, wsp.Prepare(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&loads))

	server.Close()
	assert.Error(t, wsp.Prepare(context.Background()))
}

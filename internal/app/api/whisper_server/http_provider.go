package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "meeting-recap/internal/app/errors"
)

// WhisperServerConfig represents configuration for whisper-server HTTP API
type WhisperServerConfig struct {
	BaseURL       string        // e.g. "http://192.168.1.100:8080"
	InferencePath string        // default "/inference"
	LoadPath      string        // default "/load"
	Model         string        // server-side model path; empty keeps the loaded one
	Language      string        // "auto" lets the server detect
	Prompt        string        // initial decoder prompt
	Timeout       time.Duration // per request
}

// WhisperServerResponse is the json response_format body.
type WhisperServerResponse struct {
	Text     string  `json:"text,omitempty"`
	Language string  `json:"language,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance.
// The model stays resident on the server between units.
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
	logger *zap.Logger
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig, logger *zap.Logger) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.LoadPath == "" {
		config.LoadPath = "/load"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Minute
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger.With(zap.String("transcriber", "whisper_server")),
	}
}

// Prepare loads the configured model once per run. Without a model it only
// checks that the server answers.
func (wsp *WhisperServerProvider) Prepare(ctx context.Context) error {
	if wsp.config.Model == "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, wsp.config.BaseURL+"/", nil)
		if err != nil {
			return err
		}
		resp, err := wsp.client.Do(req)
		if err != nil {
			return fmt.Errorf("whisper server unreachable: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("whisper server unhealthy: status %d", resp.StatusCode)
		}
		return nil
	}

	if err := wsp.LoadModel(ctx, wsp.config.Model); err != nil {
		return err
	}
	wsp.logger.Info("model loaded", zap.String("model", wsp.config.Model))
	return nil
}

// Transcript uploads inputFilePath to the inference endpoint.
func (wsp *WhisperServerProvider) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	body, contentType, err := wsp.createMultipartForm(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.InferencePath, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrRequestFailed, "inference: %v", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Wrapf(apperrors.ErrRequestFailed, "status %d: %s", resp.StatusCode, strings.TrimSpace(string(responseData)))
	}

	var parsed WhisperServerResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("whisper server error: %s", parsed.Error)
	}

	return strings.TrimSpace(parsed.Text), nil
}

func (wsp *WhisperServerProvider) createMultipartForm(inputFilePath string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	params := map[string]string{
		"response_format": "json",
		"temperature":     "0.0",
	}
	if wsp.config.Language != "" {
		params["language"] = wsp.config.Language
	}
	if wsp.config.Prompt != "" {
		params["prompt"] = wsp.config.Prompt
	}

	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// LoadModel loads a new model on the remote server
func (wsp *WhisperServerProvider) LoadModel(ctx context.Context, modelPath string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", modelPath); err != nil {
		return fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wsp.config.BaseURL+wsp.config.LoadPath, body)
	if err != nil {
		return fmt.Errorf("failed to create load model request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := wsp.client.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrRequestFailed, "load model: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.Wrapf(apperrors.ErrRequestFailed, "load model status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

package api

import (
	"context"

	"go.uber.org/zap"

	"meeting-recap/internal/app/api/anthropic"
	"meeting-recap/internal/app/api/gemini"
	"meeting-recap/internal/app/api/openai"
	"meeting-recap/internal/app/api/openai/chat"
	"meeting-recap/internal/app/api/openai/whisper"
	"meeting-recap/internal/app/api/whisper_cpp"
	"meeting-recap/internal/app/api/whisper_server"
	"meeting-recap/internal/app/config"
	apperrors "meeting-recap/internal/app/errors"
	envconfig "meeting-recap/internal/config"
)

// NewTranscriber builds the transcriber selected by cfg.Transcriber.Provider.
func NewTranscriber(cfg *config.Config, keys *envconfig.APIKeys, logger *zap.Logger) (Transcriber, error) {
	tc := cfg.Transcriber

	switch tc.Provider {
	case "whisper_cpp":
		return whisper_cpp.NewLocalTranscriber(whisper_cpp.Config{
			BinaryPath: tc.WhisperCpp.Binary,
			ModelPath:  tc.WhisperCpp.Model,
			Language:   tc.Language,
			Prompt:     tc.Prompt,
			Threads:    tc.WhisperCpp.Threads,
			FP16:       tc.FP16,
			TempDir:    cfg.Paths.Temp,
		}, logger), nil
	case "whisper_server":
		return whisper_server.NewWhisperServerProvider(whisper_server.WhisperServerConfig{
			BaseURL:  tc.WhisperServer.BaseURL,
			Model:    tc.WhisperServer.Model,
			Language: tc.Language,
			Prompt:   tc.Prompt,
			Timeout:  tc.WhisperServer.Timeout,
		}, logger), nil
	case "openai":
		if err := envconfig.RequireKey(keys, "openai"); err != nil {
			return nil, err
		}
		client := openai.NewClient(keys.OpenAI, tc.OpenAI.BaseURL)
		return whisper.NewRemoteTranscriber(client, tc.OpenAI.Model, tc.Language, tc.Prompt), nil
	default:
		return nil, apperrors.UnknownProvider("transcriber", tc.Provider)
	}
}

// NewGenerator builds the generator selected by cfg.Generator.Provider.
func NewGenerator(ctx context.Context, cfg *config.Config, keys *envconfig.APIKeys) (Generator, error) {
	gc := cfg.Generator

	switch gc.Provider {
	case "gemini", "openai", "anthropic":
		if err := envconfig.RequireKey(keys, gc.Provider); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.UnknownProvider("generator", gc.Provider)
	}

	switch gc.Provider {
	case "gemini":
		return gemini.NewGenerator(ctx, keys.Gemini, gc.Model, gc.BaseURL, gc.MaxTokens)
	case "openai":
		return chat.NewGenerator(openai.NewClient(keys.OpenAI, gc.BaseURL), gc.Model, gc.MaxTokens), nil
	default:
		return anthropic.NewGenerator(keys.Anthropic, gc.Model, gc.BaseURL, gc.MaxTokens)
	}
}

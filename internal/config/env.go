package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apperrors "meeting-recap/internal/app/errors"
)

// Environment variables holding credentials
const (
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvMinioAccessKey = "MINIO_ACCESS_KEY"
	EnvMinioSecretKey = "MINIO_SECRET_KEY"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI    string
	Gemini    string
	Anthropic string
}

// LoadEnv loads environment variables from the first .env file found.
// A missing file is fine since variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			fmt.Fprintf(os.Stderr, "✅ Loaded environment variables from %s\n", envPath)
			break
		}
	}

	return nil
}

// GetAPIKeys reads API keys from the environment. Keys are not checked
// here; RequireKey checks the one a command actually uses.
func GetAPIKeys() *APIKeys {
	return &APIKeys{
		OpenAI:    strings.TrimSpace(os.Getenv(EnvOpenAIKey)),
		Gemini:    strings.TrimSpace(os.Getenv(EnvGeminiKey)),
		Anthropic: strings.TrimSpace(os.Getenv(EnvAnthropicKey)),
	}
}

// ValidateAPIKeys prints which keys are available without failing.
func ValidateAPIKeys(apiKeys *APIKeys) {
	var availableKeys []string
	if apiKeys.OpenAI != "" {
		availableKeys = append(availableKeys, "OpenAI")
	}
	if apiKeys.Gemini != "" {
		availableKeys = append(availableKeys, "Gemini")
	}
	if apiKeys.Anthropic != "" {
		availableKeys = append(availableKeys, "Anthropic")
	}

	if len(availableKeys) > 0 {
		fmt.Fprintf(os.Stderr, "✅ API keys available: %s\n", strings.Join(availableKeys, ", "))
	} else {
		fmt.Fprintf(os.Stderr, "ℹ️  No API keys configured (only local transcription will work)\n")
	}
}

// EnvVarFor returns the environment variable a provider reads its key from,
// or "" for providers that run without credentials.
func EnvVarFor(provider string) string {
	switch provider {
	case "openai":
		return EnvOpenAIKey
	case "gemini":
		return EnvGeminiKey
	case "anthropic":
		return EnvAnthropicKey
	default:
		return ""
	}
}

// keyType maps a provider to the key shape ValidateAPIKey knows.
func keyType(provider string) string {
	switch provider {
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	case "anthropic":
		return "Anthropic"
	default:
		return ""
	}
}

// For returns the key configured for provider.
func (k *APIKeys) For(provider string) string {
	switch provider {
	case "openai":
		return k.OpenAI
	case "gemini":
		return k.Gemini
	case "anthropic":
		return k.Anthropic
	default:
		return ""
	}
}

// RequireKey fails fast when provider needs a credential that is unset or
// malformed. Commands call it before touching any unit.
func RequireKey(apiKeys *APIKeys, provider string) error {
	envVar := EnvVarFor(provider)
	if envVar == "" {
		return nil
	}
	if apiKeys == nil || apiKeys.For(provider) == "" {
		return apperrors.MissingKey(envVar)
	}
	if err := ValidateAPIKey(apiKeys.For(provider), keyType(provider)); err != nil {
		return apperrors.InvalidKey(envVar, err.Error())
	}
	return nil
}

// InitializeConfig loads environment and validates configuration
// This is the main entry point for configuration loading
func InitializeConfig() (*APIKeys, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	apiKeys := GetAPIKeys()
	ValidateAPIKeys(apiKeys)

	return apiKeys, nil
}

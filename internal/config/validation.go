package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 2*time.Hour {
		return fmt.Errorf("%s timeout too large (max 2 hours)", name)
	}
	return nil
}

// ValidateAPIKey checks the key shape for a known provider.
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("too short")
		}
	case "Anthropic":
		if !strings.HasPrefix(apiKey, "sk-ant-") {
			return fmt.Errorf("must start with 'sk-ant-'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

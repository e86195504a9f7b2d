package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockGenerator implements api.Generator. ResponseMap and ErrorMap are keyed
// by a marker substring searched for in the prompt; the first match wins.
type MockGenerator struct {
	mock.Mock
	mu sync.RWMutex

	DefaultResponse string
	DefaultError    error

	Prompts     []string
	ResponseMap map[string]string
	ErrorMap    map[string]error
}

// NewMockGenerator creates a MockGenerator answering every prompt with a fixed text.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		DefaultResponse: "This is a mock summary.",
		ResponseMap:     make(map[string]string),
		ErrorMap:        make(map[string]error),
	}
}

// Generate implements api.Generator
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.ExpectedCalls) > 0 {
		args := m.Called(ctx, prompt)
		return args.String(0), args.Error(1)
	}

	for marker, err := range m.ErrorMap {
		if strings.Contains(prompt, marker) {
			return "", err
		}
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	for marker, response := range m.ResponseMap {
		if strings.Contains(prompt, marker) {
			return response, nil
		}
	}
	return m.DefaultResponse, nil
}

// WithDefaultResponse sets the default response text
func (m *MockGenerator) WithDefaultResponse(response string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResponse = response
	return m
}

// WithDefaultError sets the default error to return
func (m *MockGenerator) WithDefaultError(err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// SetResponseFor answers prompts containing marker with response.
func (m *MockGenerator) SetResponseFor(marker string, response string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[marker] = response
	return m
}

// SetErrorFor fails prompts containing marker.
func (m *MockGenerator) SetErrorFor(marker string, err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[marker] = err
	return m
}

// GetCallCount returns the number of prompts received
func (m *MockGenerator) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Prompts)
}

// GetPrompts returns a copy of every prompt received, in order.
func (m *MockGenerator) GetPrompts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.Prompts))
	copy(out, m.Prompts)
	return out
}

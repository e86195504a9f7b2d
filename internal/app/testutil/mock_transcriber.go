package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber implements api.Transcriber and api.Preparer. Responses and
// errors are keyed by the input's base file name.
type MockTranscriber struct {
	mock.Mock
	mu sync.RWMutex

	DefaultError    error
	DefaultResponse string
	PrepareError    error

	CallCount    int
	PrepareCount int
	CallHistory  []TranscriptionCall
	ErrorMap     map[string]error
	ResponseMap  map[string]string
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	InputFilePath string
	Timestamp     time.Time
	Response      string
	Error         error
}

// NewMockTranscriber creates a new MockTranscriber with sensible defaults
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "This is a mock transcription result.",
		ErrorMap:        make(map[string]error),
		ResponseMap:     make(map[string]string),
		CallHistory:     make([]TranscriptionCall, 0),
	}
}

// Prepare implements api.Preparer
func (m *MockTranscriber) Prepare(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PrepareCount++
	return m.PrepareError
}

// Transcript implements api.Transcriber
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	call := TranscriptionCall{InputFilePath: inputFilePath, Timestamp: time.Now()}

	if len(m.ExpectedCalls) > 0 {
		args := m.Called(ctx, inputFilePath)
		call.Response, call.Error = args.String(0), args.Error(1)
		m.CallHistory = append(m.CallHistory, call)
		return call.Response, call.Error
	}

	name := filepath.Base(inputFilePath)
	switch {
	case m.ErrorMap[name] != nil:
		call.Error = m.ErrorMap[name]
	case m.DefaultError != nil:
		call.Error = m.DefaultError
	default:
		if response, ok := m.ResponseMap[name]; ok {
			call.Response = response
		} else {
			call.Response = m.DefaultResponse
		}
	}

	m.CallHistory = append(m.CallHistory, call)
	return call.Response, call.Error
}

// WithDefaultResponse sets the default response text
func (m *MockTranscriber) WithDefaultResponse(response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultResponse = response
	return m
}

// WithDefaultError sets the default error to return
func (m *MockTranscriber) WithDefaultError(err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DefaultError = err
	return m
}

// SetResponseForFile sets the response for a base file name
func (m *MockTranscriber) SetResponseForFile(name string, response string) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseMap[name] = response
	return m
}

// SetErrorForFile sets the error for a base file name
func (m *MockTranscriber) SetErrorForFile(name string, err error) *MockTranscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[name] = err
	return m
}

// SimulateNetworkError makes the named file fail like an unreachable API.
func (m *MockTranscriber) SimulateNetworkError(name string) *MockTranscriber {
	return m.SetErrorForFile(name, fmt.Errorf("network error: connection timeout"))
}

// GetCallCount returns the total number of calls made
func (m *MockTranscriber) GetCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.CallCount
}

// GetPrepareCount returns how often Prepare ran
func (m *MockTranscriber) GetPrepareCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PrepareCount
}

// CalledFiles returns the base names passed to Transcript, in call order.
func (m *MockTranscriber) CalledFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.CallHistory))
	for _, call := range m.CallHistory {
		names = append(names, filepath.Base(call.InputFilePath))
	}
	return names
}

package analysis

import (
	"context"
	"sync"
)

// MockAnalyzer is a test double that returns a canned response and
// records how many times it was called.
type MockAnalyzer struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

// NewMockAnalyzer creates a mock that answers every request with response.
func NewMockAnalyzer(response string) *MockAnalyzer {
	return &MockAnalyzer{response: response}
}

// SetError makes subsequent calls fail with err.
func (m *MockAnalyzer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times AnalyzeImage has run.
func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// AnalyzeImage implements Analyzer.
func (m *MockAnalyzer) AnalyzeImage(ctx context.Context, imageData string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

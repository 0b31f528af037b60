package detector

import (
	"context"
	"sync"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	count int
	err   error
	calls []string
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetCount sets the count that will be returned by Count.
func (m *MockDetector) SetCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count = count
}

// SetError sets the error that will be returned by Count.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Count returns the pre-configured count or error and records the call.
func (m *MockDetector) Count(ctx context.Context, imageDataURI string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, imageDataURI)

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

// Calls returns the image payloads passed to Count, in order.
func (m *MockDetector) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

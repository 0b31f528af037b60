package announce

import (
	"context"
	"sync"
)

// MockSynthesizer implements Synthesizer for testing.
type MockSynthesizer struct {
	// SpeakFunc is called when Speak is invoked. If nil, Speak returns
	// immediately with no error.
	SpeakFunc func(ctx context.Context, text string) error

	mu     sync.Mutex
	spoken []string
}

// NewMockSynthesizer creates a mock that records utterances and succeeds.
func NewMockSynthesizer() *MockSynthesizer {
	return &MockSynthesizer{}
}

// Speak records the text, then delegates to SpeakFunc when set.
func (m *MockSynthesizer) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()

	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// Spoken returns the utterances passed to Speak, in order.
func (m *MockSynthesizer) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

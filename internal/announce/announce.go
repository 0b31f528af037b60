// Package announce speaks detection results out loud.
package announce

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnavailable is returned when no speech synthesis backend exists.
// It is a notice, not a failure: the detection result stands regardless.
var ErrUnavailable = errors.New("announce: speech synthesis unavailable")

// Synthesizer converts text to audible speech, blocking until playback
// finishes or ctx is canceled.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// Announcer turns finger counts into spoken phrases. At most one utterance
// plays at a time; starting a new one cancels the previous.
type Announcer struct {
	synth Synthesizer

	mu       sync.Mutex
	speaking bool
	cancel   context.CancelFunc
	gen      uint64
}

// New creates an Announcer. A nil synthesizer is allowed; every Announce
// then reports ErrUnavailable.
func New(synth Synthesizer) *Announcer {
	return &Announcer{synth: synth}
}

// Phrase renders the spoken text for a detected count.
func Phrase(count int) string {
	if count == 1 {
		return "Detected 1 finger"
	}
	return fmt.Sprintf("Detected %d fingers", count)
}

// Announce speaks the phrase for count, blocking until the utterance ends.
// Any in-progress utterance is canceled first.
func (a *Announcer) Announce(ctx context.Context, count int) error {
	if a.synth == nil {
		return ErrUnavailable
	}

	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.speaking = true
	a.gen++
	gen := a.gen
	a.mu.Unlock()

	err := a.synth.Speak(ctx, Phrase(count))

	a.mu.Lock()
	// A newer utterance may have taken over while this one wound down.
	if a.gen == gen {
		a.speaking = false
		a.cancel = nil
	}
	a.mu.Unlock()
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("announce: %w", err)
	}
	return nil
}

// Speaking reports whether an utterance is currently playing.
func (a *Announcer) Speaking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.speaking
}

// Cancel stops any in-progress utterance.
func (a *Announcer) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

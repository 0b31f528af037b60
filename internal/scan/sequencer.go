package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ashim170/FingerDETECTAi/internal/announce"
	"github.com/Ashim170/FingerDETECTAi/internal/capture"
	"github.com/Ashim170/FingerDETECTAi/internal/detector"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
)

// DefaultCountdownSeconds is the countdown length when the config leaves it zero.
const DefaultCountdownSeconds = 3

// subscriberBuffer bounds each subscriber channel; slow consumers drop events
// rather than stall a scan.
const subscriberBuffer = 16

// Config holds the sequencer's collaborators and timing.
type Config struct {
	Camera    capture.Camera
	Detector  detector.Detector
	History   *history.Store
	Announcer *announce.Announcer

	// CountdownSeconds is the number of one-second ticks before capture.
	CountdownSeconds int

	// TickInterval is the countdown tick period. Defaults to one second;
	// tests shorten it.
	TickInterval time.Duration
}

// Sequencer runs at most one scan at a time: countdown, capture, detect,
// record, announce. Triggers while a scan is in flight are no-ops.
type Sequencer struct {
	config Config

	mu        sync.Mutex
	state     State
	remaining int
	lastCount int
	hasResult bool
	lastErr   string
	cancel    context.CancelFunc
	closed    bool

	subMu sync.RWMutex
	subs  map[chan Event]struct{}
}

// New creates a Sequencer in the Idle state.
func New(config Config) *Sequencer {
	if config.CountdownSeconds <= 0 {
		config.CountdownSeconds = DefaultCountdownSeconds
	}
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	return &Sequencer{
		config: config,
		state:  StateIdle,
		subs:   make(map[chan Event]struct{}),
	}
}

// Trigger starts a scan. It returns false, without any effect, when a scan is
// already in flight or the sequencer is closed.
func (s *Sequencer) Trigger() bool {
	s.mu.Lock()
	if s.closed || s.state != StateIdle {
		s.mu.Unlock()
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = StateCountingDown
	s.remaining = s.config.CountdownSeconds
	remaining := s.remaining
	s.mu.Unlock()

	s.publish(Event{Type: EventState, State: StateCountingDown, Remaining: remaining})

	go s.run(ctx, remaining)
	return true
}

// Status returns a snapshot of the sequencer.
func (s *Sequencer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:     s.state,
		Remaining: s.remaining,
		LastCount: s.lastCount,
		HasResult: s.hasResult,
		LastError: s.lastErr,
	}
}

// Subscribe registers for sequencer events. The returned cancel function
// must be called to release the subscription.
func (s *Sequencer) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		delete(s.subs, ch)
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Close cancels any in-flight scan and rejects future triggers.
func (s *Sequencer) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	if s.config.Announcer != nil {
		s.config.Announcer.Cancel()
	}
}

// run executes one full scan sequence. It owns every transition out of
// CountingDown and always leaves the machine at Idle.
func (s *Sequencer) run(ctx context.Context, remaining int) {
	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	for remaining > 0 {
		select {
		case <-ctx.Done():
			s.toIdle()
			return
		case <-ticker.C:
			remaining--
			s.mu.Lock()
			s.remaining = remaining
			s.mu.Unlock()
			s.publish(Event{Type: EventTick, State: StateCountingDown, Remaining: remaining})
		}
	}

	s.setState(StateCapturing)

	image, err := capture.Snapshot(s.config.Camera)
	if err != nil {
		s.fail(fmt.Errorf("capture: %w", err))
		return
	}

	count, err := s.config.Detector.Count(ctx, image)
	if err != nil {
		s.fail(fmt.Errorf("detection failed: %w", err))
		return
	}

	if _, err := s.config.History.Append(count); err != nil {
		s.fail(fmt.Errorf("record detection: %w", err))
		return
	}

	s.mu.Lock()
	s.lastCount = count
	s.hasResult = true
	s.lastErr = ""
	s.mu.Unlock()

	s.setState(StateSpeaking)
	s.publish(Event{Type: EventResult, State: StateSpeaking, Count: count})

	if s.config.Announcer != nil {
		if err := s.config.Announcer.Announce(ctx, count); err != nil {
			if errors.Is(err, announce.ErrUnavailable) {
				log.Printf("announce skipped: %v", err)
			} else {
				log.Printf("announce error: %v", err)
			}
		}
	}

	s.toIdle()
}

// fail surfaces an error, resets to Idle and records no history.
func (s *Sequencer) fail(err error) {
	log.Printf("scan failed: %v", err)

	s.mu.Lock()
	s.lastErr = err.Error()
	s.state = StateIdle
	s.remaining = 0
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventError, State: StateIdle, Error: err.Error()})
}

func (s *Sequencer) setState(state State) {
	s.mu.Lock()
	s.state = state
	remaining := s.remaining
	s.mu.Unlock()

	s.publish(Event{Type: EventState, State: state, Remaining: remaining})
}

func (s *Sequencer) toIdle() {
	s.mu.Lock()
	s.state = StateIdle
	s.remaining = 0
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.publish(Event{Type: EventState, State: StateIdle})
}

// publish fans an event out to all subscribers, dropping on full buffers.
func (s *Sequencer) publish(ev Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

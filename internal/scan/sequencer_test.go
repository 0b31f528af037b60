package scan

import (
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/Ashim170/FingerDETECTAi/internal/announce"
	"github.com/Ashim170/FingerDETECTAi/internal/capture"
	"github.com/Ashim170/FingerDETECTAi/internal/detector"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
)

const testTick = 5 * time.Millisecond

type fixture struct {
	camera    *capture.MockCamera
	detector  *detector.MockDetector
	history   *history.Store
	synth     *announce.MockSynthesizer
	sequencer *Sequencer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mat := gocv.NewMatWithSize(capture.FrameHeight, capture.FrameWidth, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })

	camera := capture.NewMockCamera([]*gocv.Mat{&mat}, true)
	if err := camera.Open(); err != nil {
		t.Fatalf("camera.Open() error = %v", err)
	}
	t.Cleanup(func() { camera.Close() })

	store, err := history.New("")
	if err != nil {
		t.Fatalf("history.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	det := detector.NewMockDetector()
	synth := announce.NewMockSynthesizer()

	seq := New(Config{
		Camera:           camera,
		Detector:         det,
		History:          store,
		Announcer:        announce.New(synth),
		CountdownSeconds: 3,
		TickInterval:     testTick,
	})
	t.Cleanup(seq.Close)

	return &fixture{
		camera:    camera,
		detector:  det,
		history:   store,
		synth:     synth,
		sequencer: seq,
	}
}

// waitFor drains events until one of the given type arrives.
func waitFor(t *testing.T, events <-chan Event, typ EventType) Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q event", typ)
		}
	}
}

// waitForIdle drains events until the machine reports Idle again.
func waitForIdle(t *testing.T, events <-chan Event) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == EventState && ev.State == StateIdle {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for idle")
		}
	}
}

func TestSequencer_InitialState(t *testing.T) {
	f := newFixture(t)

	st := f.sequencer.Status()
	if st.State != StateIdle {
		t.Errorf("Status().State = %q, want %q", st.State, StateIdle)
	}
	if st.HasResult {
		t.Error("Status().HasResult = true before any scan")
	}
}

func TestSequencer_FullScanCycle(t *testing.T) {
	f := newFixture(t)
	f.detector.SetCount(4)

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	if !f.sequencer.Trigger() {
		t.Fatal("Trigger() = false, want true from Idle")
	}

	result := waitFor(t, events, EventResult)
	if result.Count != 4 {
		t.Errorf("result event count = %d, want 4", result.Count)
	}
	waitForIdle(t, events)

	items, err := f.history.List()
	if err != nil {
		t.Fatalf("history.List() error = %v", err)
	}
	if len(items) != 1 || items[0].Value != 4 {
		t.Errorf("history = %v, want one entry with value 4", items)
	}

	spoken := f.synth.Spoken()
	if len(spoken) != 1 || spoken[0] != "Detected 4 fingers" {
		t.Errorf("Spoken() = %v, want [\"Detected 4 fingers\"]", spoken)
	}

	st := f.sequencer.Status()
	if st.State != StateIdle || !st.HasResult || st.LastCount != 4 || st.LastError != "" {
		t.Errorf("Status() = %+v, want idle with last count 4 and no error", st)
	}
}

func TestSequencer_CountdownTicks(t *testing.T) {
	f := newFixture(t)

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	f.sequencer.Trigger()

	var remaining []int
	deadline := time.After(5 * time.Second)
	for len(remaining) < 3 {
		select {
		case ev := <-events:
			if ev.Type == EventTick {
				remaining = append(remaining, ev.Remaining)
			}
		case <-deadline:
			t.Fatalf("timed out; ticks so far: %v", remaining)
		}
	}

	want := []int{2, 1, 0}
	for i := range want {
		if remaining[i] != want[i] {
			t.Errorf("tick #%d remaining = %d, want %d", i, remaining[i], want[i])
		}
	}
}

func TestSequencer_TriggerWhileBusy(t *testing.T) {
	f := newFixture(t)

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	if !f.sequencer.Trigger() {
		t.Fatal("first Trigger() = false, want true")
	}

	// Re-triggering during the countdown must be a no-op.
	if f.sequencer.Trigger() {
		t.Error("Trigger() during active scan = true, want false")
	}

	waitForIdle(t, events)

	// Exactly one scan ran: one history entry, one utterance.
	n, _ := f.history.Count()
	if n != 1 {
		t.Errorf("history count = %d, want 1 (second trigger must not scan)", n)
	}
	if calls := f.detector.Calls(); len(calls) != 1 {
		t.Errorf("detector calls = %d, want 1", len(calls))
	}
}

func TestSequencer_CaptureFailure(t *testing.T) {
	f := newFixture(t)
	f.camera.SetReadError(errors.New("video not ready"))

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	f.sequencer.Trigger()
	ev := waitFor(t, events, EventError)

	if ev.State != StateIdle {
		t.Errorf("error event state = %q, want %q", ev.State, StateIdle)
	}

	// No partial entry, no speech.
	n, _ := f.history.Count()
	if n != 0 {
		t.Errorf("history count = %d after capture failure, want 0", n)
	}
	if spoken := f.synth.Spoken(); len(spoken) != 0 {
		t.Errorf("Spoken() = %v after capture failure, want none", spoken)
	}

	st := f.sequencer.Status()
	if st.State != StateIdle || st.LastError == "" {
		t.Errorf("Status() = %+v, want idle with last error set", st)
	}

	// The sequencer is usable again.
	f.camera.SetReadError(nil)
	f.detector.SetCount(2)
	if !f.sequencer.Trigger() {
		t.Error("Trigger() after failure = false, want true")
	}
	waitForIdle(t, events)
}

func TestSequencer_DetectionFailure(t *testing.T) {
	f := newFixture(t)
	f.detector.SetError(errors.New("model unavailable"))

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	f.sequencer.Trigger()
	waitFor(t, events, EventError)

	n, _ := f.history.Count()
	if n != 0 {
		t.Errorf("history count = %d after detection failure, want 0", n)
	}
	if spoken := f.synth.Spoken(); len(spoken) != 0 {
		t.Errorf("Spoken() = %v after detection failure, want none", spoken)
	}
}

func TestSequencer_SpeechUnavailableIsNonFatal(t *testing.T) {
	f := newFixture(t)
	f.detector.SetCount(1)

	// Replace the announcer with one that has no backend.
	f.sequencer.config.Announcer = announce.New(nil)

	events, cancel := f.sequencer.Subscribe()
	defer cancel()

	f.sequencer.Trigger()
	result := waitFor(t, events, EventResult)
	waitForIdle(t, events)

	if result.Count != 1 {
		t.Errorf("result count = %d, want 1", result.Count)
	}

	// History still records; only the utterance is skipped.
	n, _ := f.history.Count()
	if n != 1 {
		t.Errorf("history count = %d, want 1", n)
	}
}

func TestSequencer_CloseCancelsCountdown(t *testing.T) {
	f := newFixture(t)

	seq := New(Config{
		Camera:           f.camera,
		Detector:         f.detector,
		History:          f.history,
		CountdownSeconds: 60,
		TickInterval:     time.Second,
	})

	if !seq.Trigger() {
		t.Fatal("Trigger() = false, want true")
	}

	seq.Close()

	// The countdown goroutine unwinds to Idle.
	deadline := time.After(5 * time.Second)
	for {
		if seq.Status().State == StateIdle {
			break
		}
		select {
		case <-deadline:
			t.Fatal("sequencer did not return to idle after Close()")
		case <-time.After(10 * time.Millisecond):
		}
	}

	if seq.Trigger() {
		t.Error("Trigger() after Close() = true, want false")
	}
	if calls := f.detector.Calls(); len(calls) != 0 {
		t.Errorf("detector calls after canceled countdown = %d, want 0", len(calls))
	}
}

// Package scan orchestrates the countdown/capture/detect/announce sequence.
package scan

// State is a phase of the scan state machine.
//
// Transitions: Idle -> CountingDown on trigger; CountingDown ticks down once
// per second and at zero moves to Capturing; Capturing moves to Speaking on
// success or back to Idle on failure; Speaking ends in Idle. Triggers in any
// non-Idle state are ignored.
type State string

const (
	StateIdle         State = "idle"
	StateCountingDown State = "counting_down"
	StateCapturing    State = "capturing"
	StateSpeaking     State = "speaking"
)

// EventType classifies sequencer events.
type EventType string

const (
	// EventState marks a state transition.
	EventState EventType = "state"
	// EventTick marks a one-second countdown decrement.
	EventTick EventType = "tick"
	// EventResult carries a successful detection count.
	EventResult EventType = "result"
	// EventError carries a scan failure; the sequencer is back at Idle.
	EventError EventType = "error"
)

// Event is pushed to subscribers on every observable change.
type Event struct {
	Type      EventType `json:"type"`
	State     State     `json:"state"`
	Remaining int       `json:"remaining,omitempty"`
	Count     int       `json:"count,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Status is a snapshot of the sequencer for polling clients.
type Status struct {
	State     State  `json:"state"`
	Remaining int    `json:"remaining"`
	LastCount int    `json:"last_count"`
	HasResult bool   `json:"has_result"`
	LastError string `json:"last_error,omitempty"`
}

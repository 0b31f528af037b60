package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Ashim170/FingerDETECTAi/internal/app"
	"github.com/Ashim170/FingerDETECTAi/internal/scan"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventsHandler pushes scan events (state changes, countdown ticks, results,
// errors) to WebSocket clients.
type EventsHandler struct {
	app *app.App
}

// NewEventsHandler creates a new EventsHandler for the given application.
func NewEventsHandler(a *app.App) *EventsHandler {
	return &EventsHandler{app: a}
}

// statusMessage is sent once on connect so a client can render immediately.
type statusMessage struct {
	Type   string      `json:"type"`
	Status scan.Status `json:"status"`
}

// ServeHTTP handles WebSocket upgrade requests and streams scan events until
// the client disconnects.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	seq := h.app.Sequencer()
	if seq == nil {
		http.Error(w, "scan pipeline not running", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := seq.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(statusMessage{Type: "status", Status: seq.Status()}); err != nil {
		return
	}

	// Drain client messages so closes are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

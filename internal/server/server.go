// Package server provides the HTTP server for the finger detection service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ashim170/FingerDETECTAi/internal/app"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
	"github.com/Ashim170/FingerDETECTAi/internal/server/api"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	History   *history.Store
	App       *app.App
}

// Server represents the HTTP server for the finger detection service.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.History != nil {
		historyHandler := api.NewHistoryHandler(s.config.History)
		s.mux.Handle("/api/history", historyHandler)
		s.mux.Handle("/api/history/", historyHandler)
		s.mux.Handle("/api/calc", api.NewCalcHandler(s.config.History))
	}

	if s.config.App != nil {
		s.mux.Handle("/api/scan", api.NewScanHandler(s.config.App))
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App.Camera()))
		s.mux.Handle("/api/events", NewEventsHandler(s.config.App))
	}

	// Serve the web UI if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

package api

import (
	"net/http"

	"github.com/Ashim170/FingerDETECTAi/internal/scan"
)

// ScanController is the slice of the application the scan endpoint needs.
type ScanController interface {
	Trigger() bool
	Sequencer() *scan.Sequencer
}

// ScanHandler triggers scans and reports scan state.
type ScanHandler struct {
	app ScanController
}

// NewScanHandler creates a new ScanHandler driving the given controller.
func NewScanHandler(app ScanController) *ScanHandler {
	return &ScanHandler{app: app}
}

type triggerResponse struct {
	Started bool        `json:"started"`
	Status  scan.Status `json:"status"`
}

// ServeHTTP routes scan requests.
//
//	POST /api/scan  - trigger a scan
//	GET  /api/scan  - current scan status
func (h *ScanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.trigger(w, r)
	case http.MethodGet:
		h.status(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ScanHandler) trigger(w http.ResponseWriter, r *http.Request) {
	seq := h.app.Sequencer()
	if seq == nil {
		writeError(w, http.StatusServiceUnavailable, "scan pipeline not running")
		return
	}

	if !h.app.Trigger() {
		writeJSON(w, http.StatusConflict, triggerResponse{Started: false, Status: seq.Status()})
		return
	}

	writeJSON(w, http.StatusAccepted, triggerResponse{Started: true, Status: seq.Status()})
}

func (h *ScanHandler) status(w http.ResponseWriter, r *http.Request) {
	seq := h.app.Sequencer()
	if seq == nil {
		writeError(w, http.StatusServiceUnavailable, "scan pipeline not running")
		return
	}
	writeJSON(w, http.StatusOK, seq.Status())
}

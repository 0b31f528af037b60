package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ashim170/FingerDETECTAi/internal/calc"
	"github.com/Ashim170/FingerDETECTAi/internal/history"
)

// CalcHandler performs arithmetic over the currently selected history entries.
type CalcHandler struct {
	store *history.Store
}

// NewCalcHandler creates a new CalcHandler with the given store.
func NewCalcHandler(s *history.Store) *CalcHandler {
	return &CalcHandler{store: s}
}

type calcRequest struct {
	Op string `json:"op"`
}

type calcResponse struct {
	Op     string  `json:"op"`
	Values []int   `json:"values"`
	Result float64 `json:"result"`
}

// ServeHTTP handles POST /api/calc with {"op": "add"|"multiply"|"divide"}.
// Calculation failures are descriptive and non-fatal: 422 with a message.
func (h *CalcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req calcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	values, err := h.store.SelectedValues()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve selection")
		return
	}

	result, err := calc.Apply(req.Op, values)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, calc.ErrUnknownOp) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calcResponse{Op: req.Op, Values: values, Result: result})
}

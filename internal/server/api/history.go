package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ashim170/FingerDETECTAi/internal/history"
)

// HistoryHandler handles HTTP requests for the detection history and the
// selection set.
type HistoryHandler struct {
	store *history.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *history.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

type historyItemResponse struct {
	ID        string `json:"id"`
	Value     int    `json:"value"`
	CreatedAt string `json:"created_at"`
	Selected  bool   `json:"selected"`
}

type listHistoryResponse struct {
	Items    []historyItemResponse `json:"items"`
	Selected []string              `json:"selected"`
}

// ServeHTTP routes history requests.
//
//	GET    /api/history              - list entries, newest first
//	DELETE /api/history              - clear everything
//	PUT    /api/history/{id}/select  - add an entry to the selection
//	DELETE /api/history/{id}/select  - remove an entry from the selection
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/history")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, ok := strings.CutSuffix(path, "/select")
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.selectEntry(w, r, id)
	case http.MethodDelete:
		h.deselectEntry(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}

	selected := h.store.Selection()
	selectedSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	response := listHistoryResponse{
		Items:    make([]historyItemResponse, 0, len(items)),
		Selected: selected,
	}
	for _, it := range items {
		response.Items = append(response.Items, historyItemResponse{
			ID:        it.ID,
			Value:     it.Value,
			CreatedAt: it.CreatedAt.Format(time.RFC3339),
			Selected:  selectedSet[it.ID],
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *HistoryHandler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *HistoryHandler) selectEntry(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Select(id); err != nil {
		if errors.Is(err, history.ErrUnknownEntry) {
			writeError(w, http.StatusNotFound, "History entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to select entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"selected": h.store.Selection()})
}

func (h *HistoryHandler) deselectEntry(w http.ResponseWriter, r *http.Request, id string) {
	h.store.Deselect(id)
	writeJSON(w, http.StatusOK, map[string][]string{"selected": h.store.Selection()})
}

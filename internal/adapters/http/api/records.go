// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// RecordsHandler serves the current world-record table.
type RecordsHandler struct {
	provider RecordsProvider
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(provider RecordsProvider) *RecordsHandler {
	return &RecordsHandler{provider: provider}
}

// HandleGetRecords handles GET /records requests. By default only slots
// that hold a record are returned; ?all=true includes empty slots.
func (h *RecordsHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	includeEmpty := false
	if raw := r.URL.Query().Get("all"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_query", errInvalidAllParam)
			return
		}
		includeEmpty = parsed
	}

	entries := h.provider.Records(r.Context(), includeEmpty)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"records": entries,
	})
}

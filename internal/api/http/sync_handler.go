package http

import (
	"net/http"

	"campusmarket-backend/internal/service"
)

// SyncHandler serves the polling snapshot: everything a stateless client
// needs to render in one response.
type SyncHandler struct {
	sync service.SyncService
}

func NewSyncHandler(sync service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Snapshot handles GET /api/sync.
func (h *SyncHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	userID, err := UserIDFromContext(r.Context())
	if err != nil {
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	snapshot, err := h.sync.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

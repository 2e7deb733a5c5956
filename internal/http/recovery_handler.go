package http

import (
	"context"
	"net/http"
	"time"

	"github.com/andeshop/storefront-go/internal/recovery"
)

type RecoveryHandler struct {
	flows *recovery.Service
}

func NewRecoveryHandler(flows *recovery.Service) *RecoveryHandler {
	return &RecoveryHandler{flows: flows}
}

func (h *RecoveryHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.flows.Begin(ctx, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start recovery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recovery_started"})
}

// Reset finishes the flow. It is only reachable through the recovery guard,
// so the marker is known to be set.
func (h *RecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.flows.Complete(ctx, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to complete recovery")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recovery_completed"})
}

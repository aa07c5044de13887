package handlers

import (
	"context"
	"log"
	"net/http"

	"geo-calculator-service/internal/platform/obs"
)

// HealthHandler reports liveness, and readiness when Check is set
// (normally a database ping).
type HealthHandler struct {
	Check func(ctx context.Context) error
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Check != nil {
		if err := h.Check(r.Context()); err != nil {
			log.Printf("[HANDLER ERROR] req_id=%s health check failed err=%v", obs.RequestID(r.Context()), err)
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	res := map[string]string{"status": "ok"}
	writeJSON(w, r, http.StatusOK, res)
}

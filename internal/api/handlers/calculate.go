package handlers

import (
	"io"
	"log"
	"net/http"

	"geo-calculator-service/internal/platform/obs"
)

const maxEventBytes = 1 << 20

// CalculateHandler exposes the dispatcher over HTTP for local runs. The
// request body is treated as the invocation event.
type CalculateHandler struct {
	Calc Calculator
}

func (h *CalculateHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	event, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	defer r.Body.Close()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "could not read request body")
		return
	}

	resp := Invoke(r.Context(), h.Calc, event)

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		log.Printf("[HANDLER ERROR] req_id=%s write failed path=%s err=%v", obs.RequestID(r.Context()), r.URL.Path, err)
	}
}

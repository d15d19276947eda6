package handler

import (
	"net/http"
)

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready returns 503 until the static pages are built or loaded.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.Pages.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("static build pending"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

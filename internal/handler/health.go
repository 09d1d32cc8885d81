package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks the hosted store connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and hosted store reachability
type HealthHandler struct {
	store  Pinger // nil in local-only mode
	driver string
}

// NewHealthHandler creates a new health handler. store may be nil.
func NewHealthHandler(store Pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

// Health handles GET /health. An unreachable store reports "degraded"
// with 503 since commands will be reverted until it returns.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Store: h.driver}
	if h.store == nil {
		resp.Store = "none"
		WriteJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Error = err.Error()
		WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

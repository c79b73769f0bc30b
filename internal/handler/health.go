package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger is a dependency checked by the readiness check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// FeedStatus reports the activity feed connection.
type FeedStatus interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store Pinger
	feed  FeedStatus
}

// NewHealthHandler creates a new health handler. feed may be nil.
func NewHealthHandler(store Pinger, feed FeedStatus) *HealthHandler {
	return &HealthHandler{
		store: store,
		feed:  feed,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.store == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "config store not configured",
		})
		return
	}
	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "config store unavailable: " + err.Error(),
		})
		return
	}

	// the feed is optional and never fails readiness
	feed := "disabled"
	if h.feed != nil {
		feed = "disconnected"
		if h.feed.IsConnected() {
			feed = "connected"
		}
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":        "ready",
		"activity_feed": feed,
	})
}

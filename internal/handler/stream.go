package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/internal/store"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
	"github.com/capitalize-ai/agent-dashboard/pkg/metrics"
)

const streamBatchSize = 100

// ActivityHandler serves the operator activity feed, as a list or as
// server-sent events.
type ActivityHandler struct {
	activity *service.Activity
	configs  *store.ConfigStore
	logger   *logger.Logger

	pollInterval      time.Duration
	heartbeatInterval time.Duration
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activity *service.Activity, configs *store.ConfigStore, log *logger.Logger) *ActivityHandler {
	return &ActivityHandler{
		activity:          activity,
		configs:           configs,
		logger:            log,
		pollInterval:      2 * time.Second,
		heartbeatInterval: 30 * time.Second,
	}
}

// List handles GET /api/v1/activity?after=&limit=
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "after must be a sequence number")
			return
		}
		after = parsed
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "limit must be a number")
		return
	}

	tenantID := h.configs.Load(r.Context()).TenantID
	events, err := h.activity.Recent(r.Context(), tenantID, after, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, "load activity", err)
		return
	}
	writeJSON(w, r, http.StatusOK, events)
}

// Stream handles GET /api/v1/activity/stream
// Supports ?after=N for resuming from a specific sequence.
func (h *ActivityHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.activity.Enabled() {
		writeServiceError(w, r, h.logger, "stream activity", service.ErrActivityDisabled)
		return
	}

	var afterSequence uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		seq, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "after must be a sequence number")
			return
		}
		afterSequence = seq
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming not supported")
		return
	}

	tenantID := h.configs.Load(ctx).TenantID

	// the stream outlives the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		h.logger.Warn("failed to clear write deadline", zap.Error(err))
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSEEvent(w, flusher, "connected", map[string]string{"tenant_id": tenantID})

	// replay the backlog in batches
	lastSequence := afterSequence
	replayed := 0
	for {
		events, err := h.activity.Recent(ctx, tenantID, lastSequence, streamBatchSize)
		if err != nil {
			h.logger.Error("failed to replay activity", zap.String("tenant_id", tenantID), zap.Error(err))
			sendSSEEvent(w, flusher, "error", &model.StreamErrorEvent{
				Code:    "replay_error",
				Message: "failed to replay activity",
			})
			return
		}
		for _, e := range events {
			sendSSEEvent(w, flusher, "activity", e)
			lastSequence = e.Sequence
			replayed++
		}
		if len(events) < streamBatchSize {
			break
		}
	}

	sendSSEEvent(w, flusher, "replay_complete", &model.ReplayCompleteEvent{
		LastSequence: lastSequence,
		EventCount:   replayed,
	})

	h.logger.Debug("activity replay complete",
		zap.String("tenant_id", tenantID),
		zap.Int("events_replayed", replayed),
		zap.Uint64("last_sequence", lastSequence),
	)

	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("SSE client disconnected", zap.String("tenant_id", tenantID))
			return

		case <-poll.C:
			events, err := h.activity.Recent(ctx, tenantID, lastSequence, streamBatchSize)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				h.logger.Warn("failed to poll activity", zap.String("tenant_id", tenantID), zap.Error(err))
				continue
			}
			for _, e := range events {
				sendSSEEvent(w, flusher, "activity", e)
				lastSequence = e.Sequence
			}

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", &model.HeartbeatEvent{
				Timestamp: time.Now().UTC(),
			})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}

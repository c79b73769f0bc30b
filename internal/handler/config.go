package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/internal/store"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// ConfigHandler exposes the local configuration store.
type ConfigHandler struct {
	store  *store.ConfigStore
	logger *logger.Logger
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(s *store.ConfigStore, log *logger.Logger) *ConfigHandler {
	return &ConfigHandler{store: s, logger: log}
}

// UpdateConfigRequest carries the fields to change. Absent fields keep
// their stored value, so a masked key read from GET is never written back.
type UpdateConfigRequest struct {
	BaseURL  *string `json:"baseUrl"`
	APIKey   *string `json:"apiKey"`
	TenantID *string `json:"tenantId"`
}

// Get handles GET /api/v1/config
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.store.Load(r.Context()).Masked())
}

// Update handles PUT /api/v1/config
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cfg, err := h.store.Update(r.Context(), func(c *model.ClientConfig) {
		if req.BaseURL != nil {
			c.BaseURL = *req.BaseURL
		}
		if req.APIKey != nil {
			c.APIKey = *req.APIKey
		}
		if req.TenantID != nil {
			c.TenantID = *req.TenantID
		}
	})
	if err != nil {
		h.logger.Error("failed to save config", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to save config")
		return
	}

	writeJSON(w, r, http.StatusOK, cfg.Masked())
}

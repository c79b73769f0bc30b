package handler

import (
	"net/http"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// SettingsHandler handles the tenant settings widget.
type SettingsHandler struct {
	service *service.SettingsService
	logger  *logger.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *service.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: svc, logger: log}
}

// Fetch handles POST /api/v1/settings/fetch
func (h *SettingsHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Fetch(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "load settings", err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Current()
	if err != nil {
		writeServiceError(w, r, h.logger, "load settings", err)
		return
	}
	writeJSON(w, r, http.StatusOK, doc)
}

// Put handles PUT /api/v1/settings. The body is the full edited document;
// it replaces the in-memory copy and is saved whole.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var doc model.TenantSettings
	if !decodeJSON(w, r, &doc) {
		return
	}

	if err := h.service.Replace(&doc); err != nil {
		writeServiceError(w, r, h.logger, "save settings", err)
		return
	}

	saved, err := h.service.Save(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "save settings", err)
		return
	}
	writeJSON(w, r, http.StatusOK, saved)
}

package handler

import (
	"net/http"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// maxUploadSize bounds the multipart body of a knowledge base upload.
const maxUploadSize = 32 << 20

// WidgetHandler handles the one-shot widgets: health, knowledge base,
// follow-ups, contacts and SOP state.
type WidgetHandler struct {
	services *service.Services
	logger   *logger.Logger
}

// NewWidgetHandler creates a new widget handler.
func NewWidgetHandler(svcs *service.Services, log *logger.Logger) *WidgetHandler {
	return &WidgetHandler{services: svcs, logger: log}
}

// RemoteHealth handles GET /api/v1/remote/health
func (h *WidgetHandler) RemoteHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.services.Health.Check(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "check health", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": status})
}

// UpsertKBRequest is the body of POST /api/v1/kb/items.
type UpsertKBRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// UpsertKB handles POST /api/v1/kb/items
func (h *WidgetHandler) UpsertKB(w http.ResponseWriter, r *http.Request) {
	var req UpsertKBRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.services.KB.Upsert(r.Context(), req.Title, req.Content, req.Tags)
	if err != nil {
		writeServiceError(w, r, h.logger, "upsert knowledge", err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

// UploadKB handles POST /api/v1/kb/files as multipart with fields tags and
// file.
func (h *WidgetHandler) UploadKB(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "choose a file first")
		return
	}
	defer file.Close()

	if err := h.services.KB.Upload(r.Context(), r.FormValue("tags"), header.Filename, file); err != nil {
		writeServiceError(w, r, h.logger, "upload file", err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "uploaded", "filename": header.Filename})
}

// ListFollowups handles GET /api/v1/followups?status=
func (h *WidgetHandler) ListFollowups(w http.ResponseWriter, r *http.Request) {
	status := model.FollowUpStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = model.FollowUpPending
	}

	rows, err := h.services.Followups.List(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, h.logger, "load follow-ups", err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

// FollowupCounts handles GET /api/v1/followups/counts
func (h *WidgetHandler) FollowupCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.services.Followups.Counts(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, "load follow-up counts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, counts)
}

// ListContacts handles GET /api/v1/contacts?limit=
func (h *WidgetHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "limit must be a number")
		return
	}

	contacts, err := h.services.Contacts.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, "load contacts", err)
		return
	}
	writeJSON(w, r, http.StatusOK, contacts)
}

// SopSteps handles GET /api/v1/sop/steps
func (h *WidgetHandler) SopSteps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.services.Sop.Steps())
}

// GetSopState handles GET /api/v1/sop/state?contact_id=&user_id=
func (h *WidgetHandler) GetSopState(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := h.services.Sop.GetState(r.Context(), q.Get("contact_id"), q.Get("user_id"))
	if err != nil {
		writeServiceError(w, r, h.logger, "load SOP state", err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

// SetSopState handles PUT /api/v1/sop/state
func (h *WidgetHandler) SetSopState(w http.ResponseWriter, r *http.Request) {
	var req model.SopState
	if !decodeJSON(w, r, &req) {
		return
	}

	state, err := h.services.Sop.SetState(r.Context(), req.ContactID, req.UserID, req.CurrentStep)
	if err != nil {
		writeServiceError(w, r, h.logger, "set SOP state", err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

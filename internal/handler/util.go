package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/apiclient"
	"github.com/capitalize-ai/agent-dashboard/internal/middleware"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, ErrorResponse{Error: message})
}

// writeServiceError maps a widget failure onto a status code and writes the
// operator message. Remote failures are a bad gateway from the point of view
// of the local server.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *logger.Logger, action string, err error) {
	msg := service.OperatorMessage(action, err)

	switch {
	case service.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, msg)
		return
	case errors.Is(err, service.ErrSettingsNotLoaded):
		writeError(w, r, http.StatusConflict, msg)
		return
	case errors.Is(err, service.ErrActivityDisabled):
		writeError(w, r, http.StatusNotFound, msg)
		return
	}

	resp := ErrorResponse{Error: msg}
	var se *apiclient.StatusError
	if errors.As(err, &se) {
		resp.UpstreamStatus = se.StatusCode
	}

	ctx := r.Context()
	log.WithContext(middleware.GetCorrelationID(ctx), middleware.GetOperator(ctx)).Warn("widget action failed",
		zap.String("action", action),
		zap.Error(err),
	)
	writeJSON(w, r, http.StatusBadGateway, resp)
}

// decodeJSON decodes the request body into v, replying 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

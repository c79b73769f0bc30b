package handler

import (
	"net/http"

	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// ChatHandler handles the chat tester.
type ChatHandler struct {
	chat   *service.ChatService
	logger *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: log}
}

// SendMessageRequest is the body of POST /api/v1/chat.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// Transcript handles GET /api/v1/chat
func (h *ChatHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.chat.Transcript())
}

// Send handles POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	reply, err := h.chat.Send(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, r, h.logger, "send message", err)
		return
	}
	writeJSON(w, r, http.StatusOK, reply)
}

// Reset handles DELETE /api/v1/chat
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.chat.Reset()
	w.WriteHeader(http.StatusNoContent)
}

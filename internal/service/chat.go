package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

const widgetChat = "chat"

// Chat tester defaults.
const (
	DefaultChatUserID  = "dashboard-tester"
	DefaultChatChannel = "web"
)

// ChatService is the chat tester. Its transcript lives only in memory.
type ChatService struct {
	conn     *Connector
	activity *Activity
	logger   *logger.Logger

	userID  string
	channel string
	now     func() time.Time

	mu         sync.Mutex
	transcript []model.ChatMessage
}

// ChatOption configures a ChatService.
type ChatOption func(*ChatService)

// WithChatUser sets the user id sent with every chat request.
func WithChatUser(userID string) ChatOption {
	return func(s *ChatService) {
		if userID != "" {
			s.userID = userID
		}
	}
}

// WithClock overrides the clock used to stamp messages.
func WithClock(now func() time.Time) ChatOption {
	return func(s *ChatService) { s.now = now }
}

// NewChatService creates the chat tester.
func NewChatService(conn *Connector, activity *Activity, log *logger.Logger, opts ...ChatOption) *ChatService {
	s := &ChatService{
		conn:     conn,
		activity: activity,
		logger:   log.Named("chat"),
		userID:   DefaultChatUserID,
		channel:  DefaultChatChannel,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends text as a user message, sends the whole transcript and
// appends the reply. On failure the user message stays and no reply is
// added.
func (s *ChatService) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, invalid(widgetChat, "message is empty")
	}

	client, err := s.conn.Connect(ctx, widgetChat)
	if err != nil {
		return model.ChatMessage{}, err
	}
	tenantID := client.Config().TenantID

	s.mu.Lock()
	s.transcript = append(s.transcript, model.NewChatMessage(model.SenderUser, text, s.now()))
	history := make([]model.Message, 0, len(s.transcript))
	for _, m := range s.transcript {
		history = append(history, model.Message{Role: m.Sender.Role(), Content: m.Text})
	}
	s.mu.Unlock()

	resp, err := client.Chat(ctx, model.ChatRequest{
		TenantID: tenantID,
		UserID:   s.userID,
		Metadata: map[string]any{"source": "dashboard"},
		Channel:  s.channel,
		Messages: history,
	})
	if err != nil {
		return model.ChatMessage{}, err
	}

	reply := model.NewChatMessage(model.SenderAI, resp.FullText, s.now())
	reply.Context = resp.RetrievedContext

	s.mu.Lock()
	s.transcript = append(s.transcript, reply)
	s.mu.Unlock()

	s.logger.Debug("chat reply received",
		zap.String("tenant_id", tenantID),
		zap.Int("context_chunks", len(resp.RetrievedContext)),
	)
	s.activity.Record(ctx, tenantID, model.ActivityChatSent, map[string]any{
		"user_id":  s.userID,
		"messages": len(history),
	})
	return reply, nil
}

// Transcript returns a copy of the conversation so far.
func (s *ChatService) Transcript() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Reset clears the conversation.
func (s *ChatService) Reset() {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
}

package model

import (
	"time"
)

// ActivityType represents the kind of operator action recorded in the activity feed.
type ActivityType string

const (
	ActivitySettingsSaved ActivityType = "settings_saved"
	ActivityKBUpserted    ActivityType = "kb_upserted"
	ActivityKBUploaded    ActivityType = "kb_uploaded"
	ActivitySopStateSet   ActivityType = "sop_state_set"
	ActivityChatSent      ActivityType = "chat_sent"
)

// ActivityEvent represents an operator action performed through the dashboard.
type ActivityEvent struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Type      ActivityType   `json:"type"`
	Detail    map[string]any `json:"detail,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Sequence  uint64         `json:"sequence,omitempty"`
}

// StreamErrorEvent is sent on the activity stream when reading fails.
type StreamErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HeartbeatEvent keeps an idle activity stream open.
type HeartbeatEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// ReplayCompleteEvent marks the end of the replayed backlog.
type ReplayCompleteEvent struct {
	LastSequence uint64 `json:"last_sequence"`
	EventCount   int    `json:"event_count"`
}

package model

import (
	"time"
)

// FollowUpStatus is the delivery state of a scheduled follow-up.
type FollowUpStatus string

const (
	FollowUpPending FollowUpStatus = "pending"
	FollowUpSent    FollowUpStatus = "sent"
	FollowUpFailed  FollowUpStatus = "failed"
)

// FollowUpStatuses lists the statuses offered by the follow-up filter.
var FollowUpStatuses = []FollowUpStatus{FollowUpPending, FollowUpSent, FollowUpFailed}

// Valid reports whether s is one of the known statuses.
func (s FollowUpStatus) Valid() bool {
	for _, known := range FollowUpStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// FollowUpRow is a scheduled outbound message as reported by the server.
type FollowUpRow struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Reason      string         `json:"reason"`
	ScheduledAt time.Time      `json:"scheduled_at"`
	Channel     string         `json:"channel"`
	Metadata    map[string]any `json:"metadata"`
	Status      FollowUpStatus `json:"status"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
	LastError   *string        `json:"last_error,omitempty"`
}

// FollowupCounts holds the number of follow-ups per status.
type FollowupCounts struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

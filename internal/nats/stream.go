package nats

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

const (
	// StreamName is the name of the activity stream.
	StreamName = "DASHBOARD_ACTIVITY"

	// SubjectPrefix is the prefix for all activity subjects.
	SubjectPrefix = "dash"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream creates the activity stream if it does not exist yet.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream: %w", err)
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		MaxBytes:    1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Operator actions performed through the agent dashboard",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// subjectToken makes s safe as a single subject token. Plain ids pass
// through; anything else is hex encoded behind a '~', which plain ids never
// contain, so distinct ids never share a token.
func subjectToken(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool { return !plainTokenRune(r) }) < 0 {
		return s
	}
	return "~" + hex.EncodeToString([]byte(s))
}

func plainTokenRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
}

// ActivitySubject returns the subject for an activity event.
func ActivitySubject(tenantID string, eventType model.ActivityType) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, subjectToken(tenantID), subjectToken(string(eventType)))
}

// TenantFilter returns the filter subject for all activity of a tenant.
func TenantFilter(tenantID string) string {
	return fmt.Sprintf("%s.%s.>", SubjectPrefix, subjectToken(tenantID))
}

// PublishActivity publishes an activity event to JetStream.
func (m *StreamManager) PublishActivity(ctx context.Context, event *model.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, ActivitySubject(event.TenantID, event.Type), data)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	event.Sequence = ack.Sequence

	return nil
}

// RecentActivity returns up to limit events of a tenant recorded after the
// given stream sequence, oldest first.
func (m *StreamManager) RecentActivity(ctx context.Context, tenantID string, afterSequence uint64, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	consumerConfig := jetstream.ConsumerConfig{
		FilterSubject: TenantFilter(tenantID),
		AckPolicy:     jetstream.AckNonePolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	}
	if afterSequence > 0 {
		consumerConfig.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		consumerConfig.OptStartSeq = afterSequence + 1
	}

	consumer, err := m.client.JetStream().CreateConsumer(ctx, StreamName, consumerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	batch, err := consumer.Fetch(limit, jetstream.FetchMaxWait(2*time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity: %w", err)
	}

	events := []model.ActivityEvent{}
	for msg := range batch.Messages() {
		var event model.ActivityEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil || event.TenantID != tenantID {
			continue
		}
		if meta, err := msg.Metadata(); err == nil {
			event.Sequence = meta.Sequence.Stream
		}
		events = append(events, event)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, jetstream.ErrNoMessages) {
		return nil, fmt.Errorf("batch error: %w", err)
	}

	return events, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
	"github.com/capitalize-ai/agent-dashboard/pkg/metrics"
)

// ErrActivityDisabled is returned when no activity feed is configured.
var ErrActivityDisabled = errors.New("activity feed is not configured")

// EventPublisher publishes operator activity.
type EventPublisher interface {
	PublishActivity(ctx context.Context, event *model.ActivityEvent) error
}

// ActivityReader reads back published activity.
type ActivityReader interface {
	RecentActivity(ctx context.Context, tenantID string, afterSequence uint64, limit int) ([]model.ActivityEvent, error)
}

// Activity records operator actions. It never feeds back into a widget. A
// nil Activity, or one without a publisher, drops everything.
type Activity struct {
	publisher EventPublisher
	logger    *logger.Logger
}

// NewActivity creates an activity recorder. publisher may be nil.
func NewActivity(publisher EventPublisher, log *logger.Logger) *Activity {
	return &Activity{publisher: publisher, logger: log.Named("activity")}
}

// Enabled reports whether events are published anywhere.
func (a *Activity) Enabled() bool {
	return a != nil && a.publisher != nil
}

// Record publishes an event. Failures are logged and never returned.
func (a *Activity) Record(ctx context.Context, tenantID string, typ model.ActivityType, detail map[string]any) {
	if !a.Enabled() {
		return
	}
	event := &model.ActivityEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		TenantID:  tenantID,
		Type:      typ,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.publisher.PublishActivity(ctx, event); err != nil {
		metrics.RecordActivityEvent(string(typ), "error")
		a.logger.Warn("failed to publish activity",
			zap.String("type", string(typ)),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return
	}
	metrics.RecordActivityEvent(string(typ), "ok")
}

// Recent returns the tenant's activity after afterSequence, oldest first.
func (a *Activity) Recent(ctx context.Context, tenantID string, afterSequence uint64, limit int) ([]model.ActivityEvent, error) {
	if !a.Enabled() {
		return nil, ErrActivityDisabled
	}
	reader, ok := a.publisher.(ActivityReader)
	if !ok {
		return nil, ErrActivityDisabled
	}
	if limit < 0 || limit > 500 {
		return nil, invalid("activity", "limit must be between 0 and 500")
	}
	return reader.RecentActivity(ctx, tenantID, afterSequence, limit)
}

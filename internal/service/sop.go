package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

const widgetSop = "sop"

// SopService reads and sets where a contact sits in the SOP flow. Any step
// may be set from any other.
type SopService struct {
	conn     *Connector
	activity *Activity
	logger   *logger.Logger
}

// NewSopService creates the SOP widget.
func NewSopService(conn *Connector, activity *Activity, log *logger.Logger) *SopService {
	return &SopService{conn: conn, activity: activity, logger: log.Named("sop")}
}

// Steps returns the fixed step labels.
func (s *SopService) Steps() []string {
	out := make([]string, len(model.SopSteps))
	copy(out, model.SopSteps)
	return out
}

// SetState moves a contact or user to step.
func (s *SopService) SetState(ctx context.Context, contactID, userID, step string) (model.SopState, error) {
	state := model.SopState{ContactID: contactID, UserID: userID, CurrentStep: step}
	if err := validateStruct(widgetSop, state); err != nil {
		return state, err
	}

	client, err := s.conn.Connect(ctx, widgetSop)
	if err != nil {
		return state, err
	}
	state.TenantID = client.Config().TenantID

	if err := client.SetSopState(ctx, state); err != nil {
		return state, err
	}

	s.logger.Info("sop state set",
		zap.String("tenant_id", state.TenantID),
		zap.String("contact_id", contactID),
		zap.String("step", step),
	)
	s.activity.Record(ctx, state.TenantID, model.ActivitySopStateSet, map[string]any{
		"contact_id":   contactID,
		"user_id":      userID,
		"current_step": step,
	})
	return state, nil
}

// GetState reads the current step of a contact or user.
func (s *SopService) GetState(ctx context.Context, contactID, userID string) (*model.SopState, error) {
	if contactID == "" && userID == "" {
		return nil, invalid(widgetSop, "contact_id or user_id is required")
	}
	client, err := s.conn.Connect(ctx, widgetSop)
	if err != nil {
		return nil, err
	}
	return client.GetSopState(ctx, contactID, userID)
}

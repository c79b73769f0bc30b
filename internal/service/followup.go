package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

const widgetFollowup = "followup"

// FollowupService reads the follow-up queue.
type FollowupService struct {
	conn   *Connector
	logger *logger.Logger
}

// NewFollowupService creates the follow-up widget.
func NewFollowupService(conn *Connector, log *logger.Logger) *FollowupService {
	return &FollowupService{conn: conn, logger: log.Named("followup")}
}

// List returns the follow-ups with status, exactly as the server sent them.
func (s *FollowupService) List(ctx context.Context, status model.FollowUpStatus) ([]model.FollowUpRow, error) {
	if !status.Valid() {
		return nil, invalid(widgetFollowup, "unknown status %q, expected pending, sent or failed", status)
	}
	client, err := s.conn.Connect(ctx, widgetFollowup)
	if err != nil {
		return nil, err
	}
	return client.ListFollowups(ctx, status)
}

// Counts fetches the three status lists independently and counts them. The
// requests run concurrently in no particular order; the first failure is
// returned.
func (s *FollowupService) Counts(ctx context.Context) (model.FollowupCounts, error) {
	var counts model.FollowupCounts

	client, err := s.conn.Connect(ctx, widgetFollowup)
	if err != nil {
		return counts, err
	}

	targets := map[model.FollowUpStatus]*int{
		model.FollowUpPending: &counts.Pending,
		model.FollowUpSent:    &counts.Sent,
		model.FollowUpFailed:  &counts.Failed,
	}

	var g errgroup.Group
	for status, dst := range targets {
		status, dst := status, dst
		g.Go(func() error {
			rows, err := client.ListFollowups(ctx, status)
			if err != nil {
				s.logger.Debug("followup count failed", zap.String("status", string(status)), zap.Error(err))
				return err
			}
			*dst = len(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.FollowupCounts{}, err
	}
	return counts, nil
}

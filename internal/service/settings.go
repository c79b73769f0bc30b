package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

const widgetSettings = "settings"

// SettingsService keeps the single editable copy of the tenant settings
// document and synchronizes it with the agent API.
//
// The lock is held only while swapping the copy, never across a call, so
// overlapping Fetch and Save calls race and the last response wins.
type SettingsService struct {
	conn     *Connector
	activity *Activity
	logger   *logger.Logger

	mu      sync.Mutex
	current *model.TenantSettings
}

// NewSettingsService creates a settings synchronizer.
func NewSettingsService(conn *Connector, activity *Activity, log *logger.Logger) *SettingsService {
	return &SettingsService{
		conn:     conn,
		activity: activity,
		logger:   log.Named("settings"),
	}
}

// Fetch loads the settings document, replacing the in-memory copy.
func (s *SettingsService) Fetch(ctx context.Context) (*model.TenantSettings, error) {
	client, err := s.conn.ConnectTenant(ctx, widgetSettings)
	if err != nil {
		return nil, err
	}

	doc, err := client.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	s.swap(doc)
	s.logger.Info("settings loaded", zap.String("tenant_id", client.Config().TenantID))
	return doc.Clone(), nil
}

// Current returns a copy of the in-memory document.
func (s *SettingsService) Current() (*model.TenantSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrSettingsNotLoaded
	}
	return s.current.Clone(), nil
}

// Edit applies fn to the in-memory document.
func (s *SettingsService) Edit(fn func(*model.TenantSettings)) (*model.TenantSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrSettingsNotLoaded
	}
	fn(s.current)
	return s.current.Clone(), nil
}

// Replace swaps in a fully edited document.
func (s *SettingsService) Replace(doc *model.TenantSettings) error {
	if doc == nil {
		return invalid(widgetSettings, "settings document is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrSettingsNotLoaded
	}
	s.current = doc.Clone()
	return nil
}

// Save sends the whole in-memory document and replaces it with the
// server's response. On failure the copy is left as it was.
func (s *SettingsService) Save(ctx context.Context) (*model.TenantSettings, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return nil, ErrSettingsNotLoaded
	}
	outgoing := s.current.Clone()
	s.mu.Unlock()

	client, err := s.conn.ConnectTenant(ctx, widgetSettings)
	if err != nil {
		return nil, err
	}

	saved, err := client.PutSettings(ctx, outgoing)
	if err != nil {
		return nil, err
	}

	s.swap(saved)
	tenantID := client.Config().TenantID
	s.logger.Info("settings saved", zap.String("tenant_id", tenantID))
	s.activity.Record(ctx, tenantID, model.ActivitySettingsSaved, map[string]any{
		"timezone":         saved.Timezone,
		"followup_enabled": saved.FollowupEnabled,
		"sop_steps":        len(saved.Sop.Steps),
	})
	return saved.Clone(), nil
}

func (s *SettingsService) swap(doc *model.TenantSettings) {
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
}

// Package service implements the dashboard widgets on top of the agent API
// client. Each widget validates locally and then issues its own independent
// request; no widget refreshes another.
package service

import (
	"context"
	"strings"

	"github.com/capitalize-ai/agent-dashboard/internal/apiclient"
	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// ConfigLoader returns the current client configuration.
type ConfigLoader interface {
	Load(ctx context.Context) model.ClientConfig
}

// Connector builds an API client from the stored configuration. The
// configuration is read on every call so edits apply immediately.
type Connector struct {
	configs ConfigLoader
	opts    []apiclient.Option
}

// NewConnector creates a connector.
func NewConnector(configs ConfigLoader, opts ...apiclient.Option) *Connector {
	return &Connector{configs: configs, opts: opts}
}

// Connect requires a base URL.
func (c *Connector) Connect(ctx context.Context, widget string) (*apiclient.Client, error) {
	cfg := c.configs.Load(ctx)
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, invalid(widget, "set the base URL first")
	}
	return apiclient.New(cfg, c.opts...), nil
}

// ConnectTenant requires base URL, API key and tenant ID.
func (c *Connector) ConnectTenant(ctx context.Context, widget string) (*apiclient.Client, error) {
	cfg := c.configs.Load(ctx)
	if cfg.BaseURL == "" || cfg.APIKey == "" || cfg.TenantID == "" {
		return nil, invalid(widget, "set base URL, tenant ID and API key first")
	}
	return apiclient.New(cfg, c.opts...), nil
}

// Services bundles every widget.
type Services struct {
	Settings  *SettingsService
	KB        *KBService
	Followups *FollowupService
	Contacts  *ContactsService
	Sop       *SopService
	Chat      *ChatService
	Health    *HealthService
	Activity  *Activity

	// Connector is shared by every widget above.
	Connector *Connector
}

// NewServices wires all widgets onto one connector.
func NewServices(conn *Connector, activity *Activity, log *logger.Logger) *Services {
	return &Services{
		Settings:  NewSettingsService(conn, activity, log),
		KB:        NewKBService(conn, activity, log),
		Followups: NewFollowupService(conn, log),
		Contacts:  NewContactsService(conn),
		Sop:       NewSopService(conn, activity, log),
		Chat:      NewChatService(conn, activity, log),
		Health:    NewHealthService(conn),
		Activity:  activity,
		Connector: conn,
	}
}

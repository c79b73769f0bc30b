// Package store persists the dashboard's client configuration in a
// key/value store, the way the browser dashboard used local storage.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// ConfigKey is the fixed key the client configuration is stored under.
const ConfigKey = "agent_dashboard_config"

// KV is a minimal string key/value store.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error
}

// ConfigStore loads and saves the ClientConfig.
type ConfigStore struct {
	kv     KV
	logger *logger.Logger
}

// NewConfigStore creates a config store on top of kv.
func NewConfigStore(kv KV, log *logger.Logger) *ConfigStore {
	return &ConfigStore{
		kv:     kv,
		logger: log.Named("config-store"),
	}
}

// Load returns the last saved configuration. A missing, unreadable or
// malformed entry yields the default configuration; the failure is logged
// and never returned.
func (s *ConfigStore) Load(ctx context.Context) model.ClientConfig {
	raw, ok, err := s.kv.Get(ctx, ConfigKey)
	if err != nil {
		s.logger.Warn("failed to read stored config", zap.Error(err))
		return model.DefaultClientConfig()
	}
	if !ok {
		return model.DefaultClientConfig()
	}

	cfg, err := decodeConfig(raw)
	if err != nil {
		s.logger.Warn("failed to load config", zap.Error(err))
		return model.DefaultClientConfig()
	}
	return cfg
}

// Save stores the full configuration. No field is validated.
func (s *ConfigStore) Save(ctx context.Context, cfg model.ClientConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := s.kv.Set(ctx, ConfigKey, string(data)); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Update loads the configuration, applies fn and saves the result.
func (s *ConfigStore) Update(ctx context.Context, fn func(*model.ClientConfig)) (model.ClientConfig, error) {
	cfg := s.Load(ctx)
	fn(&cfg)
	if err := s.Save(ctx, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Ping checks the underlying store.
func (s *ConfigStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// decodeConfig accepts only a JSON object. Fields absent from the object
// stay empty, exactly as stored.
func decodeConfig(raw string) (model.ClientConfig, error) {
	var cfg model.ClientConfig
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return cfg, errors.New("stored config is not a JSON object")
	}
	if err := json.Unmarshal(trimmed, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

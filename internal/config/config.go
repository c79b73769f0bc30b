// Package config provides process configuration for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the dashboard process. The connection
// parameters of the remote agent API are not here: they live in the local
// configuration store and are edited by the operator at runtime.
type Config struct {
	Env string `yaml:"env" env:"ENV" env-default:"production"`

	// Local dashboard server
	Server struct {
		Port         string        `yaml:"port" env:"DASHBOARD_PORT" env-default:"8090"`
		ReadTimeout  time.Duration `yaml:"read_timeout" env:"DASHBOARD_READ_TIMEOUT" env-default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"DASHBOARD_WRITE_TIMEOUT" env-default:"120s"`
		CORSOrigins  []string      `yaml:"cors_origins" env:"DASHBOARD_CORS_ORIGINS" env-separator:","`
	} `yaml:"server"`

	// Local configuration store
	Store struct {
		Dir      string `yaml:"dir" env:"DASHBOARD_STORE_DIR" env-default:""`
		RedisURL string `yaml:"redis_url" env:"DASHBOARD_REDIS_URL" env-default:""`
	} `yaml:"store"`

	// Remote agent API. Zero timeout means none, like the browser fetch.
	API struct {
		Timeout time.Duration `yaml:"timeout" env:"DASHBOARD_API_TIMEOUT" env-default:"0s"`
	} `yaml:"api"`

	// Activity feed; disabled when URL is empty
	NATS struct {
		URL      string `yaml:"url" env:"NATS_URL" env-default:""`
		CAFile   string `yaml:"ca_file" env:"NATS_CA_FILE" env-default:""`
		CertFile string `yaml:"cert_file" env:"NATS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"NATS_KEY_FILE" env-default:""`
		Token    string `yaml:"token" env:"NATS_TOKEN" env-default:""`
	} `yaml:"nats"`

	// Operator authentication for the local server; disabled when empty
	JWTSecret string `yaml:"jwt_secret" env:"DASHBOARD_JWT_SECRET" env-default:""`

	// Rate limiting
	RateLimitRequests int           `yaml:"rate_limit_requests" env:"RATE_LIMIT_REQUESTS" env-default:"120"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Tracing
	TracingEndpoint string `yaml:"tracing_endpoint" env:"TRACING_ENDPOINT" env-default:"localhost:4318"`
	TracingEnabled  bool   `yaml:"tracing_enabled" env:"TRACING_ENABLED" env-default:"false"`
}

// Load reads configuration from the YAML file at path, overridden by
// environment variables. An empty path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("%w; %s", err, desc)
	}

	if cfg.Store.Dir == "" {
		cfg.Store.Dir = defaultStoreDir()
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "agent-dashboard")
	}
	return ".agent-dashboard"
}

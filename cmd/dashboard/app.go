package main

import (
	"context"
	"fmt"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/apiclient"
	"github.com/capitalize-ai/agent-dashboard/internal/config"
	natsclient "github.com/capitalize-ai/agent-dashboard/internal/nats"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/internal/store"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
	"github.com/capitalize-ai/agent-dashboard/pkg/tracing"
)

// app holds everything a command needs, built once per process.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *store.ConfigStore
	services *service.Services

	redis *store.RedisStore
	nats  *natsclient.Client
	tp    *sdktrace.TracerProvider
}

func newApp(ctx context.Context, opts *rootOptions, server bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("load config: %w", err))
	}

	log, err := newLogger(cfg, opts.logLevel, server)
	if err != nil {
		return nil, withCode(exitFailure, fmt.Errorf("create logger: %w", err))
	}
	logger.SetGlobal(log)

	a := &app{cfg: cfg, log: log}

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "agent-dashboard", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			a.tp = tp
		}
	}

	var kv store.KV
	if cfg.Store.RedisURL != "" {
		rs, err := store.NewRedisStore(ctx, cfg.Store.RedisURL)
		if err != nil {
			a.Close()
			return nil, withCode(exitFailure, err)
		}
		a.redis = rs
		kv = rs
	} else {
		kv = store.NewFileStore(cfg.Store.Dir)
	}
	a.store = store.NewConfigStore(kv, log)

	// the activity feed is optional; widgets work without it
	var publisher service.EventPublisher
	if cfg.NATS.URL != "" {
		if pub, err := a.connectActivity(ctx); err != nil {
			log.Warn("activity feed disabled", zap.Error(err))
		} else {
			publisher = pub
		}
	}

	conn := service.NewConnector(a.store,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log),
	)
	a.services = service.NewServices(conn, service.NewActivity(publisher, log), log)

	return a, nil
}

func newLogger(cfg *config.Config, override string, server bool) (*logger.Logger, error) {
	switch {
	case server && cfg.IsDevelopment():
		return logger.NewDevelopment()
	case server:
		level := cfg.LogLevel
		if override != "" {
			level = override
		}
		return logger.New(level)
	default:
		level := "warn"
		if override != "" {
			level = override
		}
		return logger.NewCLI(level)
	}
}

func (a *app) connectActivity(ctx context.Context) (*natsclient.StreamManager, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	nc, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      a.cfg.NATS.URL,
		CAFile:   a.cfg.NATS.CAFile,
		CertFile: a.cfg.NATS.CertFile,
		KeyFile:  a.cfg.NATS.KeyFile,
		Token:    a.cfg.NATS.Token,
	}, a.log)
	if err != nil {
		return nil, err
	}

	streams := natsclient.NewStreamManager(nc)
	if err := streams.EnsureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	a.nats = nc
	return streams, nil
}

// Close releases connections and flushes logs and spans.
func (a *app) Close() {
	if a.nats != nil {
		a.nats.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if a.tp != nil {
		if err := tracing.Shutdown(context.Background(), a.tp); err != nil {
			a.log.Warn("failed to flush traces", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

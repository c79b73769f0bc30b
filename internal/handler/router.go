// Package handler provides the HTTP handlers of the local dashboard server.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/capitalize-ai/agent-dashboard/internal/middleware"
	"github.com/capitalize-ai/agent-dashboard/internal/service"
	"github.com/capitalize-ai/agent-dashboard/internal/store"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

// RouterConfig holds what the router needs.
type RouterConfig struct {
	Store    *store.ConfigStore
	Services *service.Services
	Logger   *logger.Logger
	Feed     FeedStatus

	JWTSecret         string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the local dashboard API.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger.Named("http")

	healthHandler := NewHealthHandler(cfg.Store, cfg.Feed)
	configHandler := NewConfigHandler(cfg.Store, log)
	settingsHandler := NewSettingsHandler(cfg.Services.Settings, log)
	widgetHandler := NewWidgetHandler(cfg.Services, log)
	chatHandler := NewChatHandler(cfg.Services.Chat, log)
	activityHandler := NewActivityHandler(cfg.Services.Activity, cfg.Store, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		if cfg.RateLimitRequests > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}

		// reads
		r.Get("/config", configHandler.Get)
		r.Get("/remote/health", widgetHandler.RemoteHealth)
		r.Get("/settings", settingsHandler.Get)
		r.Get("/followups", widgetHandler.ListFollowups)
		r.Get("/followups/counts", widgetHandler.FollowupCounts)
		r.Get("/contacts", widgetHandler.ListContacts)
		r.Get("/sop/steps", widgetHandler.SopSteps)
		r.Get("/sop/state", widgetHandler.GetSopState)
		r.Get("/chat", chatHandler.Transcript)
		r.Get("/activity", activityHandler.List)
		r.Get("/activity/stream", activityHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(middleware.ScopeWrite))

			r.Put("/config", configHandler.Update)
			r.Post("/settings/fetch", settingsHandler.Fetch)
			r.Put("/settings", settingsHandler.Put)
			r.Post("/kb/items", widgetHandler.UpsertKB)
			r.Post("/kb/files", widgetHandler.UploadKB)
			r.Put("/sop/state", widgetHandler.SetSopState)
			r.Post("/chat", chatHandler.Send)
			r.Delete("/chat", chatHandler.Reset)
		})
	})

	return otelhttp.NewHandler(r, "dashboard")
}

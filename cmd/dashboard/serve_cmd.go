package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/handler"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard widgets as a local JSON API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.load(cmd, true)
			if err != nil {
				return err
			}
			if port != "" {
				a.cfg.Server.Port = port
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides DASHBOARD_PORT)")
	return cmd
}

// serve runs the local API until ctx is cancelled, then drains it.
func serve(ctx context.Context, a *app) error {
	log := a.log

	rc := handler.RouterConfig{
		Store:             a.store,
		Services:          a.services,
		Logger:            log,
		JWTSecret:         a.cfg.JWTSecret,
		CORSOrigins:       a.cfg.Server.CORSOrigins,
		RateLimitRequests: a.cfg.RateLimitRequests,
		RateLimitWindow:   a.cfg.RateLimitWindow,
	}
	if a.nats != nil {
		rc.Feed = a.nats
	}
	router := handler.NewRouter(rc)

	server := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	if a.cfg.JWTSecret == "" {
		log.Warn("operator authentication disabled, set DASHBOARD_JWT_SECRET to enable it")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("port", a.cfg.Server.Port),
			zap.Bool("activity_feed", a.services.Activity.Enabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server error", zap.Error(err))
			return withCode(exitFailure, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return withCode(exitFailure, err)
	}

	log.Info("server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/chikitsamitra/internal/api/handlers"
	"github.com/zatekoja/chikitsamitra/internal/api/middleware"
	"github.com/zatekoja/chikitsamitra/internal/api/routes"
	"github.com/zatekoja/chikitsamitra/internal/app"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	"github.com/zatekoja/chikitsamitra/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	assistant, err := app.New(ctx, cfg, metrics, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start assistant")
	}

	checks := make(map[string]handlers.HealthCheck)
	for name, check := range assistant.HealthChecks() {
		checks[name] = check
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if assistant.Cache != nil && cfg.Directory.CacheTTL > 0 {
		cacheMiddleware = middleware.NewCacheMiddleware(assistant.Cache, cfg.Directory.CacheTTL, middleware.DirectoryRoutes...)
	}

	proxies, err := cfg.Server.TrustedProxyPrefixes()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid trusted proxies")
	}

	router := routes.NewRouter(routes.Handlers{
		Health:       handlers.NewHealthHandler(assistant.Directory.TransportName(), checks),
		Chat:         handlers.NewChatHandler(assistant.Chat),
		Directory:    handlers.NewDirectoryHandler(assistant.Directory),
		Selector:     handlers.NewSelectorHandler(assistant.Appointment, assistant.Finder),
		Verification: handlers.NewVerificationHandler(assistant.Verification),
		Booking:      handlers.NewBookingHandler(assistant.Bookings),
		Contact:      handlers.NewContactHandler(assistant.Cache, handlers.WithTrustedProxies(proxies...)),
		SSE:          handlers.NewSSEHandler(assistant.Events),
	}, cacheMiddleware, cfg.Server.AllowedOrigins, metrics)

	// no WriteTimeout: /api/events streams indefinitely
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")
	// ends open event streams so Shutdown does not wait on them
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if err := assistant.Close(); err != nil {
		log.Error().Err(err).Msg("error closing assistant")
	}

	log.Info().Msg("server stopped")
}

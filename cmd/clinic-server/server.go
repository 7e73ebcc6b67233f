package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/consultation"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/prescription"
	"github.com/clinic/clinic/internal/domain/settings"
	"github.com/clinic/clinic/internal/platform/assets"
	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/middleware"
	"github.com/clinic/clinic/internal/platform/openapi"
	"github.com/clinic/clinic/internal/platform/telemetry"
)

// routes bundles the handlers mounted under /api/v1.
type routes struct {
	patients      *patient.Handler
	consultations *consultation.Handler
	prescriptions *prescription.Handler
	settings      *settings.Handler
	signature     *assets.Handler
}

// newEcho builds the HTTP server. connMW is nil when no database is attached.
func newEcho(cfg *config.Config, logger zerolog.Logger, r routes, health db.Pinger, metrics *telemetry.Metrics, connMW echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	if metrics != nil {
		e.Use(metrics.Middleware())
	}
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Sanitize(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if health != nil {
		e.GET("/health/db", db.HealthHandler(health))
	}
	if metrics != nil {
		e.GET("/metrics", metrics.Handler())
	}

	api := e.Group(apiPrefix)
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	if connMW != nil {
		api.Use(connMW)
	}
	r.patients.RegisterRoutes(api)
	r.consultations.RegisterRoutes(api)
	r.prescriptions.RegisterRoutes(api)
	r.settings.RegisterRoutes(api)
	r.signature.RegisterRoutes(api, "/settings/signature")
	openapi.NewGenerator(version, apiPrefix, e.Routes, apiDocs).RegisterRoutes(api)

	return e
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV"))

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg.Env)

	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if n, err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare schema")
	} else {
		logger.Info().Int("statements", n).Msg("schema ready")
	}

	clinic, err := settings.LoadFile(cfg.SettingsFile, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load clinic settings")
	}
	rc, err := newRenderConfig(cfg, clinic, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare rendering")
	}
	pinger := db.NewPinger(pool)
	metrics := telemetry.NewMetrics(pinger)
	rc.Observer = metrics

	r := routes{
		patients:      patient.NewHandler(patient.NewService(patient.NewRepoPG(pool), logger)),
		consultations: consultation.NewHandler(consultation.NewService(consultation.NewRepoPG(pool), logger)),
		prescriptions: prescription.NewHandler(prescription.NewService(prescription.NewRepoPG(pool), rc, logger)),
		settings:      settings.NewHandler(clinic),
		signature:     assets.NewHandler(rc.Assets, cfg.SignatureAsset),
	}
	e := newEcho(cfg, logger, r, pinger, metrics, db.ConnMiddleware(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

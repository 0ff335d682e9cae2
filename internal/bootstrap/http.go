package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/digieduhack/aula-api/config"
	httpx "github.com/digieduhack/aula-api/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB             // Optional, adds a postgres health check
	Gatherer prometheus.Gatherer // Optional
	Logger   *slog.Logger
	Errors   chan<- error // Optional, receives a listen failure
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: routerServices(cfg, appCfg, logger),
		HTTP:     appCfg.HTTP,
	})

	return startServer(logger, handler, appCfg.HTTP.Addr, cfg.Errors)
}

func routerServices(cfg *HTTPServerConfig, appCfg *config.AppConfig, logger *slog.Logger) httpx.RouterServices {
	svcs := cfg.Services
	services := httpx.RouterServices{
		Auth:         svcs.Auth,
		Courses:      svcs.Courses,
		Sections:     svcs.Sections,
		Enrollments:  svcs.Enrollments,
		Profiles:     svcs.Profiles,
		Certificates: svcs.Certificates,
		Dashboard:    svcs.Dashboard,
		Paths:        svcs.Paths,
		Cookies: &httpx.SessionCookies{
			Name:   appCfg.Session.CookieName,
			Domain: appCfg.HTTP.CookieDomain,
			Dev:    appCfg.IsDev(),
		},
		Health:      healthChecks(cfg),
		FrontendDir: appCfg.FrontendDir,
		Logger:      logger,
	}
	if svcs.Metrics != nil {
		services.Metrics = svcs.Metrics.HTTP
	}
	if cfg.Gatherer != nil && appCfg.Observability.Metrics.IsEnabled() {
		services.MetricsHandler = promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
		services.MetricsPath = appCfg.Observability.Metrics.Path
	}
	return services
}

func healthChecks(cfg *HTTPServerConfig) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if cfg.DB != nil {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Check: cfg.DB.PingContext})
	}
	if cfg.Services.SessionStore != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Check: cfg.Services.SessionStore.Health})
	}
	return checks
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
	HTTP     config.HTTPConfig
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	router := httpx.NewRouter(cfg.Services)

	// Order: Recover -> Logging -> Compression -> Timeout -> Router
	h := httpx.Timeout(cfg.HTTP.UpstreamTimeout)(router)
	if cfg.HTTP.CompressionEnabled {
		cfg.Logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: cfg.Logger})(h)
	}

	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			if errCh != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}

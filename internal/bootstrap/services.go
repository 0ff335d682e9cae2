package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/digieduhack/aula-api/config"
	redisadapter "github.com/digieduhack/aula-api/internal/adapters/redis"
	"github.com/digieduhack/aula-api/internal/data"
	"github.com/digieduhack/aula-api/internal/observability/metrics"
	"github.com/digieduhack/aula-api/internal/ports"
	"github.com/digieduhack/aula-api/internal/service"
	"github.com/digieduhack/aula-api/internal/session"
)

const shutdownWaitTimeout = 10 * time.Second

// sessionKeyPrefix namespaces session records in a shared Redis.
const sessionKeyPrefix = "aula:session:"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth         *service.AuthService
	Courses      *service.CourseService
	Sections     *service.SectionService
	Enrollments  *service.EnrollmentService
	Profiles     *service.ProfileService
	Certificates *service.CertificateService
	Dashboard    *service.DashboardService
	Paths        *service.LearningPathService

	// SessionStore is exposed for health checks.
	SessionStore *redisadapter.SessionStore
	Metrics      *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Provider    ports.IdentityProvider
	Registerer  prometheus.Registerer // Optional, metrics are not registered when nil
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports; no business rules here.
type serviceRepositories struct {
	Courses      *data.CourseRepo
	Sections     *data.SectionRepo
	Enrollments  *data.EnrollmentRepo
	Profiles     *data.ProfileRepo
	Certificates *data.CertificateRepo
	Paths        *data.LearningPathRepo
}

func buildRepositories(db *sql.DB) *serviceRepositories {
	return &serviceRepositories{
		Courses:      data.NewCourseRepo(db),
		Sections:     data.NewSectionRepo(db),
		Enrollments:  data.NewEnrollmentRepo(db),
		Profiles:     data.NewProfileRepo(db),
		Certificates: data.NewCertificateRepo(db),
		Paths:        data.NewLearningPathRepo(db),
	}
}

// NewServices wires the session issuer and verifier, repositories and use cases.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps with config are required")
	}
	if deps.DB == nil || deps.RedisClient == nil || deps.Provider == nil {
		return ServiceContainer{}, errors.New("database, redis client and identity provider are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var m *metrics.Metrics
	if deps.Registerer != nil {
		m = metrics.New(deps.Registerer)
	} else {
		m = &metrics.Metrics{}
	}

	store := redisadapter.NewSessionStore(deps.RedisClient, redisadapter.SessionStoreOptions{Prefix: sessionKeyPrefix})
	sessions, err := buildSessions(deps.Config, deps.Provider, store, m.Auth)
	if err != nil {
		return ServiceContainer{}, err
	}

	repos := buildRepositories(deps.DB)
	return buildDomainServices(&domainServicesOptions{
		Config:   deps.Config,
		Provider: deps.Provider,
		Sessions: sessions,
		Repos:    repos,
		Store:    store,
		Metrics:  m,
		Logger:   logger,
	}), nil
}

// buildSessions creates the issuer and verifier sharing one codec and store.
func buildSessions(
	cfg *config.AppConfig,
	provider ports.IdentityProvider,
	store ports.SessionStore,
	recorder *metrics.Auth,
) (service.AuthSessions, error) {
	codec, err := session.NewCodec([]byte(cfg.Session.SigningKey), nil)
	if err != nil {
		return service.AuthSessions{}, fmt.Errorf("build session codec: %w", err)
	}

	var rec session.Recorder
	if recorder != nil {
		rec = recorder
	}

	issuer, err := session.NewIssuer(session.IssuerOptions{
		Provider: provider,
		Store:    store,
		Codec:    codec,
		TTL:      cfg.Session.TTL,
		Recorder: rec,
	})
	if err != nil {
		return service.AuthSessions{}, fmt.Errorf("build session issuer: %w", err)
	}

	verifier, err := session.NewVerifier(session.VerifierOptions{
		Store:     store,
		Codec:     codec,
		Policy:    cfg.AdminPolicy(),
		CacheTTL:  cfg.Session.CacheTTL,
		CacheSize: cfg.Session.CacheSize,
		Timeout:   cfg.Session.VerifyTimeout,
		Recorder:  rec,
	})
	if err != nil {
		return service.AuthSessions{}, fmt.Errorf("build session verifier: %w", err)
	}

	return service.AuthSessions{Issuer: issuer, Verifier: verifier}, nil
}

type domainServicesOptions struct {
	Config   *config.AppConfig
	Provider ports.IdentityProvider
	Sessions service.AuthSessions
	Repos    *serviceRepositories
	Store    *redisadapter.SessionStore
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// buildDomainServices wires business services on top of repositories.
func buildDomainServices(opts *domainServicesOptions) ServiceContainer {
	repos := opts.Repos
	return ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: opts.Provider,
			Sessions: opts.Sessions,
			Profiles: repos.Profiles,
			Policy:   opts.Config.AdminPolicy(),
			Metrics:  opts.Metrics.Auth,
			Logger:   opts.Logger,
		}),
		Courses: service.NewCourseService(service.CourseServiceOptions{
			Repo:   repos.Courses,
			Logger: opts.Logger,
		}),
		Sections: service.NewSectionService(service.SectionServiceOptions{
			Sections: repos.Sections,
			Courses:  repos.Courses,
		}),
		Enrollments: service.NewEnrollmentService(service.EnrollmentServiceOptions{
			Enrollments: repos.Enrollments,
			Courses:     repos.Courses,
		}),
		Profiles: service.NewProfileService(service.ProfileServiceOptions{Repo: repos.Profiles}),
		Certificates: service.NewCertificateService(service.CertificateServiceOptions{
			Certificates: repos.Certificates,
			Enrollments:  repos.Enrollments,
			Courses:      repos.Courses,
		}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Profiles:     repos.Profiles,
			Enrollments:  repos.Enrollments,
			Certificates: repos.Certificates,
		}),
		Paths: service.NewLearningPathService(service.LearningPathServiceOptions{
			Repo:   repos.Paths,
			Logger: opts.Logger,
		}),
		SessionStore: opts.Store,
		Metrics:      opts.Metrics,
	}
}

// RunConfig contains what the server process needs once services are wired.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	DB       *sql.DB
	Gatherer prometheus.Gatherer // Optional, serves /metrics when set
	Logger   *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until a signal arrives or the server fails.
func RunWithShutdown(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		DB:       cfg.DB,
		Gatherer: cfg.Gatherer,
		Logger:   logger,
		Errors:   errCh,
	})

	return waitForShutdown(ctx, shutdownConfig{
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal, context cancellation or server error.
func waitForShutdown(ctx context.Context, cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case <-ctx.Done():
		cfg.logger.Info("context canceled; shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()
	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}

package config

import (
	"errors"
	"strings"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

// AppEnv names the deployment environment.
type AppEnv string

const (
	EnvDevelopment AppEnv = "development"
	EnvProduction  AppEnv = "production"
	EnvTest        AppEnv = "test"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Identity provider configuration
//   - session.go: Session artifact and cookie configuration
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server configuration
//   - observability.go: Metrics and logging configuration
type AppConfig struct {
	// Env selects environment-specific behavior such as non-secure cookies on loopback.
	Env AppEnv `env:"APP_ENV" envDefault:"production"`

	// InstitutionalDomain grants admin to addresses under this email domain.
	InstitutionalDomain string `env:"INSTITUTIONAL_DOMAIN" envDefault:"alumno.buap.mx"`

	// FrontendDir serves a static frontend when set.
	FrontendDir string `env:"FRONTEND_DIR"`

	Auth    AuthConfig
	Session SessionConfig `envPrefix:"SESSION_"`

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Env = AppEnv(strings.ToLower(strings.TrimSpace(string(c.Env))))
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	case "dev":
		c.Env = EnvDevelopment
	default:
		c.Env = EnvProduction
	}

	c.InstitutionalDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.InstitutionalDomain)), "@")
	if c.InstitutionalDomain == "" {
		c.InstitutionalDomain = domainauth.DefaultInstitutionalDomain
	}
	c.FrontendDir = strings.TrimSpace(c.FrontendDir)

	c.Auth.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports missing settings the process cannot start without.
func (c *AppConfig) Validate() error {
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if c.Auth.Mode == AuthModeMock && !c.IsDev() {
		return errors.New("AUTH_MODE=mock is only allowed when APP_ENV=development")
	}
	return c.Session.Validate()
}

// IsDev reports whether the process runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env == EnvDevelopment }

// AdminPolicy returns the admin policy for the institutional domain.
func (c *AppConfig) AdminPolicy() domainauth.AdminPolicy {
	return domainauth.NewAdminPolicy(c.InstitutionalDomain)
}

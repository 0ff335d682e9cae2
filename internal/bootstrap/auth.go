package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/digieduhack/aula-api/config"
	"github.com/digieduhack/aula-api/internal/adapters/devauth"
	"github.com/digieduhack/aula-api/internal/adapters/localidp"
	"github.com/digieduhack/aula-api/internal/adapters/oidc"
	"github.com/digieduhack/aula-api/internal/data"
	"github.com/digieduhack/aula-api/internal/ports"
)

// IdentityConfig contains what the identity provider needs for the configured auth mode.
type IdentityConfig struct {
	Auth       config.AuthConfig
	DB         *sql.DB      // Required for AUTH_MODE=password
	HTTPClient *http.Client // Optional, used for OIDC discovery and token calls
	Logger     *slog.Logger
}

// BuildIdentityProvider constructs the single identity provider for this process from AUTH_MODE.
// Misconfiguration is an error: the server never starts with authentication disabled.
//
//nolint:ireturn // the concrete provider is selected at runtime.
func BuildIdentityProvider(ctx context.Context, cfg IdentityConfig) (ports.IdentityProvider, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Auth.Mode {
	case config.AuthModePassword:
		if cfg.DB == nil {
			return nil, errors.New("password auth requires a database")
		}
		prov, err := newLocalProvider(data.NewAccountRepo(cfg.DB), cfg.Auth)
		if err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "identity provider ready", "mode", cfg.Auth.Mode)
		return prov, nil

	case config.AuthModeMock:
		accounts := cfg.Auth.DevAuth.ParsedAccounts()
		seeds := make([]devauth.Seed, 0, len(accounts))
		for _, a := range accounts {
			seeds = append(seeds, devauth.Seed{Email: a.Email, Password: a.Password})
		}
		store, err := devauth.NewAccountStore(seeds...)
		if err != nil {
			return nil, fmt.Errorf("build dev account store: %w", err)
		}
		prov, err := newLocalProvider(store, cfg.Auth)
		if err != nil {
			return nil, err
		}
		logger.WarnContext(ctx, "mock identity provider enabled; do not use in production",
			"accounts", len(seeds))
		return prov, nil

	case config.AuthModeOIDC:
		o := cfg.Auth.OIDC
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			Scope:        o.Scope,
			DiscoveryURL: o.DiscoveryURL,
			HTTPClient:   cfg.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		logger.InfoContext(ctx, "identity provider ready", "mode", cfg.Auth.Mode, "discovery_url", o.DiscoveryURL)
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func newLocalProvider(accounts ports.AccountStore, cfg config.AuthConfig) (*localidp.Provider, error) {
	prov, err := localidp.NewProvider(accounts, localidp.Config{
		SigningKey: []byte(cfg.IdentitySigningKey),
		TokenTTL:   cfg.IdentityTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build local identity provider: %w", err)
	}
	return prov, nil
}

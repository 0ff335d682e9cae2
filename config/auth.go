package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode selects the identity provider constructed at startup.
type AuthMode string

const (
	// AuthModePassword uses the built-in password provider backed by Postgres.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC uses an external OIDC provider through the password grant.
	AuthModeOIDC AuthMode = "oidc"
	// AuthModeMock uses the built-in provider over in-memory seeded accounts (development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "password", "oidc", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc, mock)", v)
	}
}

// OIDCConfig contains external OIDC provider configuration.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig seeds the in-memory account store used when AUTH_MODE=mock.
// Accounts are "email:password" pairs separated by ";".
type DevAuthConfig struct {
	Accounts []string `env:"ACCOUNTS" envDefault:"admin@alumno.buap.mx:admin123;student@example.com:student123" envSeparator:";"`
}

// DevAccount is a parsed DEV_AUTH_ACCOUNTS entry.
type DevAccount struct {
	Email    string
	Password string
}

// ParsedAccounts returns the valid seed accounts; malformed entries are skipped.
func (c DevAuthConfig) ParsedAccounts() []DevAccount {
	out := make([]DevAccount, 0, len(c.Accounts))
	for _, raw := range c.Accounts {
		email, password, ok := strings.Cut(strings.TrimSpace(raw), ":")
		email = strings.TrimSpace(email)
		if !ok || email == "" || password == "" {
			continue
		}
		out = append(out, DevAccount{Email: email, Password: password})
	}
	return out
}

// AuthConfig groups all identity provider configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// IdentitySigningKey signs identity tokens minted by the built-in provider.
	IdentitySigningKey string `env:"IDENTITY_SIGNING_KEY"`

	// IdentityTokenTTL bounds the lifetime of built-in identity tokens.
	IdentityTokenTTL time.Duration `env:"IDENTITY_TOKEN_TTL" envDefault:"5m"`

	// OIDC configuration (used when Mode=oidc).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims string settings.
func (c *AuthConfig) Sanitize() {
	c.IdentitySigningKey = strings.TrimSpace(c.IdentitySigningKey)
	c.OIDC.DiscoveryURL = strings.TrimSpace(c.OIDC.DiscoveryURL)
	c.OIDC.ClientID = strings.TrimSpace(c.OIDC.ClientID)
	if c.Mode == "" {
		c.Mode = AuthModePassword
	}
	if c.IdentityTokenTTL <= 0 {
		c.IdentityTokenTTL = 5 * time.Minute
	}
}

// Validate reports settings the selected mode cannot start without.
func (c *AuthConfig) Validate() error {
	switch c.Mode {
	case AuthModePassword, AuthModeMock:
		if c.IdentitySigningKey == "" {
			return errors.New("IDENTITY_SIGNING_KEY is required")
		}
	case AuthModeOIDC:
		if c.OIDC.DiscoveryURL == "" || c.OIDC.ClientID == "" {
			return errors.New("OIDC_DISCOVERY_URL and OIDC_CLIENT_ID are required when AUTH_MODE=oidc")
		}
	default:
		return fmt.Errorf("invalid AuthMode: %q", c.Mode)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultSessionCookieName is the cookie carrying the session artifact.
	DefaultSessionCookieName = "session"
	minSessionSigningKeyLen  = 32
)

// SessionConfig contains session artifact and cookie configuration.
// Fields are read with the SESSION_ prefix.
type SessionConfig struct {
	// TTL is the lifetime of an issued session.
	TTL time.Duration `env:"TTL" envDefault:"24h"`

	// SigningKey signs session artifacts (HS256).
	SigningKey string `env:"SIGNING_KEY"`

	// CacheTTL bounds how long a verified principal is reused without a store read.
	// Zero or negative disables the cache.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10s"`

	// VerifyTimeout bounds one shared session store lookup.
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"5s"`

	// CacheSize caps the number of cached principals.
	CacheSize int `env:"CACHE_SIZE" envDefault:"4096"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"session"`
}

// Sanitize applies defaults for empty or out of range values.
func (c *SessionConfig) Sanitize() {
	c.SigningKey = strings.TrimSpace(c.SigningKey)
	if c.TTL <= 0 {
		c.TTL = 24 * time.Hour
	}
	if c.VerifyTimeout <= 0 {
		c.VerifyTimeout = 5 * time.Second
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 4096
	}
	if c.CookieName = strings.TrimSpace(c.CookieName); c.CookieName == "" {
		c.CookieName = DefaultSessionCookieName
	}
}

// Validate reports whether the session signing key is usable.
func (c *SessionConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("SESSION_SIGNING_KEY is required")
	}
	if len(c.SigningKey) < minSessionSigningKeyLen {
		return fmt.Errorf("SESSION_SIGNING_KEY must be at least %d bytes", minSessionSigningKeyLen)
	}
	return nil
}

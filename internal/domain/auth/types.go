// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// DefaultInstitutionalDomain is the email domain whose holders administer the catalog.
const DefaultInstitutionalDomain = "alumno.buap.mx"

// Identity represents the authenticated subject returned by an identity provider.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID string // stable subject identifier (sub)
	Email  string
}

// IdentityToken is the short-lived credential minted by an identity provider.
// It is consumed once to mint a session and never persisted.
type IdentityToken string

// Session is the server-side record kept for an issued session artifact.
// ID is the artifact's sid claim; the record's absence means the session was revoked.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Principal is the authenticated identity derived from a verified session.
// It is recomputed on every request and never stored.
type Principal struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// AdminPolicy derives administrator status from an email address.
// The email domain is the only admin signal; no stored flag is consulted.
type AdminPolicy struct {
	suffix string
}

// NewAdminPolicy returns a policy granting admin to addresses under domain.
// An empty domain falls back to DefaultInstitutionalDomain.
func NewAdminPolicy(domain string) AdminPolicy {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "@")
	if d == "" {
		d = DefaultInstitutionalDomain
	}
	return AdminPolicy{suffix: "@" + d}
}

// IsAdmin reports whether email belongs to the institutional domain.
// Matching is case-insensitive and anchored on "@" so look-alike domains do not match.
func (p AdminPolicy) IsAdmin(email string) bool {
	if p.suffix == "" {
		p = NewAdminPolicy("")
	}
	e := strings.ToLower(strings.TrimSpace(email))
	return len(e) > len(p.suffix) && strings.HasSuffix(e, p.suffix)
}

// Domain returns the institutional domain without the leading "@".
func (p AdminPolicy) Domain() string {
	if p.suffix == "" {
		return DefaultInstitutionalDomain
	}
	return p.suffix[1:]
}

// Principal builds the Principal for a session.
func (p AdminPolicy) Principal(s Session) Principal {
	return Principal{
		UserID:  s.UserID,
		Email:   s.Email,
		IsAdmin: p.IsAdmin(s.Email),
	}
}

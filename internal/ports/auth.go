// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

// IdentityProvider exchanges credentials for short-lived identity tokens and verifies them.
// Exactly one implementation is constructed per process.
type IdentityProvider interface {
	// SignIn verifies the credentials and returns a freshly minted identity token.
	SignIn(ctx context.Context, email, password string) (domainauth.IdentityToken, error)

	// SignUp creates an account and returns its identity together with a token for it.
	SignUp(ctx context.Context, email, password string) (domainauth.Identity, domainauth.IdentityToken, error)

	// VerifyIdentityToken checks the token's signature, audience and expiry and returns its subject.
	VerifyIdentityToken(ctx context.Context, raw domainauth.IdentityToken) (domainauth.Identity, error)
}

// ErrSessionNotFound is returned by SessionStore.Get when no live record exists.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the server-side record of issued sessions.
// A missing record means the session was revoked or has expired; Get then fails with ErrSessionNotFound.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Account is a credential record held by the built-in identity provider.
type Account struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// AccountStore persists built-in identity provider accounts.
// Create fails with a conflict error when the email is already registered;
// GetByEmail fails with a not-found error when it is not.
type AccountStore interface {
	Create(ctx context.Context, email, passwordHash string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
}

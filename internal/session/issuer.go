package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/ports"
)

// DefaultTTL is the canonical session lifetime.
const DefaultTTL = 24 * time.Hour

var errEmptyIdentityToken = errors.New("identity token is empty")

// IssuerOptions groups dependencies for NewIssuer.
type IssuerOptions struct {
	Provider ports.IdentityProvider
	Store    ports.SessionStore
	Codec    *Codec
	TTL      time.Duration    // Optional, defaults to DefaultTTL
	Now      func() time.Time // Optional, defaults to time.Now
	Recorder Recorder         // Optional
}

// Issuer exchanges verified identity tokens for session artifacts.
type Issuer struct {
	provider ports.IdentityProvider
	store    ports.SessionStore
	codec    *Codec
	ttl      time.Duration
	now      func() time.Time
	rec      Recorder
}

// Issued is a freshly minted session and its signed artifact.
type Issued struct {
	Token   string
	Session domainauth.Session
}

// NewIssuer constructs an Issuer. Provider, Store and Codec are required.
func NewIssuer(opts IssuerOptions) (*Issuer, error) {
	if opts.Provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("session codec is required")
	}
	iss := &Issuer{
		provider: opts.Provider,
		store:    opts.Store,
		codec:    opts.Codec,
		ttl:      opts.TTL,
		now:      opts.Now,
		rec:      opts.Recorder,
	}
	if iss.ttl <= 0 {
		iss.ttl = DefaultTTL
	}
	if iss.now == nil {
		iss.now = time.Now
	}
	if iss.rec == nil {
		iss.rec = nopRecorder{}
	}
	return iss, nil
}

// TTL returns the lifetime given to every issued session.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue verifies token with the identity provider and mints a session expiring TTL from now.
// Every failure is reported as SESSION_ISSUANCE_FAILED.
func (i *Issuer) Issue(ctx context.Context, token domainauth.IdentityToken) (Issued, error) {
	if token == "" {
		return Issued{}, apperrors.SessionIssuanceFailed(errEmptyIdentityToken)
	}

	ident, err := i.provider.VerifyIdentityToken(ctx, token)
	if err != nil {
		return Issued{}, apperrors.SessionIssuanceFailed(err)
	}

	now := i.now().UTC().Truncate(time.Second)
	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    ident.UserID,
		Email:     ident.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(i.ttl),
	}

	signed, err := i.codec.Encode(sess)
	if err != nil {
		return Issued{}, apperrors.SessionIssuanceFailed(err)
	}
	if err := i.store.Save(ctx, sess); err != nil {
		return Issued{}, apperrors.SessionIssuanceFailed(err)
	}

	i.rec.SessionIssued()
	return Issued{Token: signed, Session: sess}, nil
}

// Revoke deletes the server record behind raw. Undecodable artifacts have nothing to revoke.
func (i *Issuer) Revoke(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	sess, err := i.codec.Decode(raw)
	if err != nil {
		return nil //nolint:nilerr // an invalid cookie is already unusable
	}
	if err := i.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not end the session.")
	}
	i.rec.SessionRevoked()
	return nil
}

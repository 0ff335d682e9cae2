// Package localidp provides the built-in password identity provider.
// Accounts live in a ports.AccountStore; identity tokens are short-lived HS256 JWTs.
package localidp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/ports"
)

// Defaults applied by NewProvider.
const (
	DefaultIssuer   = "aula-local-idp"
	DefaultAudience = "aula-api"
	DefaultTokenTTL = 5 * time.Minute
	minSigningKey   = 32
)

// Config holds configuration for the built-in provider.
type Config struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
	Now        func() time.Time // Optional, defaults to time.Now
}

// Provider implements ports.IdentityProvider over an AccountStore.
type Provider struct {
	accounts ports.AccountStore
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errUnexpectedAlg = errors.New("unexpected signing algorithm")

// NewProvider creates a built-in provider backed by accounts.
func NewProvider(accounts ports.AccountStore, cfg Config) (*Provider, error) {
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	if len(cfg.SigningKey) < minSigningKey {
		return nil, fmt.Errorf("identity signing key must be at least %d bytes", minSigningKey)
	}
	p := &Provider{
		accounts: accounts,
		key:      append([]byte(nil), cfg.SigningKey...),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL,
		now:      cfg.Now,
	}
	if p.issuer == "" {
		p.issuer = DefaultIssuer
	}
	if p.audience == "" {
		p.audience = DefaultAudience
	}
	if p.ttl <= 0 {
		p.ttl = DefaultTokenTTL
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// SignIn checks the password against the stored hash and mints an identity token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domainauth.IdentityToken, error) {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			burnCompare(password)
			return "", domainauth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	ok, err := ComparePassword(password, acct.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return "", domainauth.ErrInvalidCredentials
	}
	return p.mint(domainauth.Identity{UserID: acct.ID, Email: acct.Email})
}

// SignUp registers a new account and returns its identity with a fresh token.
// A registered email fails with domainauth.ErrEmailTaken.
func (p *Provider) SignUp(
	ctx context.Context,
	email, password string,
) (domainauth.Identity, domainauth.IdentityToken, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return domainauth.Identity{}, "", fmt.Errorf("hash password: %w", err)
	}
	acct, err := p.accounts.Create(ctx, email, hash)
	if err != nil {
		return domainauth.Identity{}, "", err
	}
	id := domainauth.Identity{UserID: acct.ID, Email: acct.Email}
	tok, err := p.mint(id)
	if err != nil {
		return domainauth.Identity{}, "", err
	}
	return id, tok, nil
}

// VerifyIdentityToken validates signature, algorithm, issuer, audience and expiry.
func (p *Provider) VerifyIdentityToken(_ context.Context, raw domainauth.IdentityToken) (domainauth.Identity, error) {
	if raw == "" {
		return domainauth.Identity{}, errors.New("empty identity token")
	}
	claims := new(identityClaims)
	_, err := jwt.ParseWithClaims(string(raw), claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errUnexpectedAlg
		}
		return p.key, nil
	},
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify identity token: %w", err)
	}
	if claims.Subject == "" {
		return domainauth.Identity{}, errors.New("identity token has no subject")
	}
	return domainauth.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

func (p *Provider) mint(id domainauth.Identity) (domainauth.IdentityToken, error) {
	now := p.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	})
	signed, err := tok.SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign identity token: %w", err)
	}
	return domainauth.IdentityToken(signed), nil
}

package oidc

// Package oidc provides an external OpenID Connect identity provider adapter.
// Credentials are exchanged with the Resource Owner Password Credentials grant;
// the returned id_token is the identity token.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

// Provider implements ports.IdentityProvider using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// go-oidc provider and verifier
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	Scope        string
	DiscoveryURL string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// DiscoveryDocument represents the OIDC discovery document.
type DiscoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint,omitempty"`
	JwksURI               string `json:"jwks_uri"`
}

// NewProvider creates a new OIDC provider. It performs discovery once.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	p := &Provider{httpClient: httpClient}

	issuer := strings.TrimSuffix(config.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(p.clientContext(ctx), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	p.oidcProvider = op
	p.verifier = op.Verifier(&gooidc.Config{ClientID: config.ClientID})

	scopes := strings.Fields(config.Scope)
	if !slices.Contains(scopes, gooidc.ScopeOpenID) {
		scopes = append([]string{gooidc.ScopeOpenID}, scopes...)
	}
	p.config = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       scopes,
		Endpoint:     op.Endpoint(),
	}

	return p, nil
}

// SignIn exchanges email and password for an id_token at the token endpoint.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domainauth.IdentityToken, error) {
	token, err := p.config.PasswordCredentialsToken(p.clientContext(ctx), email, password)
	if err != nil {
		if isCredentialRejection(err) {
			return "", domainauth.ErrInvalidCredentials
		}
		return "", fmt.Errorf("password grant: %w", err)
	}
	rawID, err := getIDTokenFromToken(token)
	if err != nil {
		return "", err
	}
	return domainauth.IdentityToken(rawID), nil
}

// SignUp is not offered by external providers.
func (p *Provider) SignUp(context.Context, string, string) (domainauth.Identity, domainauth.IdentityToken, error) {
	return domainauth.Identity{}, "", domainauth.ErrSignUpUnsupported
}

// VerifyIdentityToken verifies the id_token against the provider's keys, issuer and client ID.
func (p *Provider) VerifyIdentityToken(ctx context.Context, raw domainauth.IdentityToken) (domainauth.Identity, error) {
	if raw == "" {
		return domainauth.Identity{}, errors.New("empty identity token")
	}
	idTok, err := p.verifier.Verify(p.clientContext(ctx), string(raw))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	id := mapIDTokenClaims(claims)
	if id.UserID == "" || id.Email == "" {
		return domainauth.Identity{}, errors.New("id_token lacks subject or email")
	}
	return id, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// idTokenClaims accepts both standard OIDC and AD/ADFS claim shapes.
type idTokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Mail  string `json:"mail"`
}

// mapIDTokenClaims maps raw id token claims into an Identity using precedence rules.
func mapIDTokenClaims(c idTokenClaims) domainauth.Identity {
	return domainauth.Identity{
		UserID: c.Sub,
		Email:  domainauth.NormalizeEmail(firstNonEmpty(c.Email, c.Mail)),
	}
}

// isCredentialRejection reports whether the token endpoint refused the credentials
// rather than failing in transport.
func isCredentialRejection(err error) bool {
	var rerr *oauth2.RetrieveError
	if !errors.As(err, &rerr) {
		return false
	}
	if rerr.ErrorCode != "" {
		return rerr.ErrorCode == "invalid_grant"
	}
	return rerr.Response != nil && rerr.Response.StatusCode == http.StatusBadRequest
}

// firstNonEmpty returns the first non-empty string from vals, or empty string if none.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	raw := tok.Extra("id_token")
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}

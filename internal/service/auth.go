package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/observability/metrics"
	"github.com/digieduhack/aula-api/internal/ports"
	"github.com/digieduhack/aula-api/internal/session"
)

// SessionIssuer mints and revokes session artifacts.
type SessionIssuer interface {
	Issue(ctx context.Context, token domainauth.IdentityToken) (session.Issued, error)
	Revoke(ctx context.Context, raw string) error
}

// SessionVerifier resolves a raw session artifact to a principal.
type SessionVerifier interface {
	Verify(ctx context.Context, raw string) (*domainauth.Principal, error)
	Invalidate(raw string)
}

// AuthSessions groups the session issuer and verifier.
type AuthSessions struct {
	Issuer   SessionIssuer
	Verifier SessionVerifier
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions AuthSessions
	Profiles core.ProfileRepository
	Policy   domainauth.AdminPolicy
	Metrics  *metrics.Auth // Optional
	Logger   *slog.Logger  // Optional
}

// AuthService orchestrates sign-in, sign-up and sign-out by coordinating the identity
// provider, the session issuer and verifier, and profile persistence.
type AuthService struct {
	provider ports.IdentityProvider
	issuer   SessionIssuer
	verifier SessionVerifier
	profiles core.ProfileRepository
	policy   domainauth.AdminPolicy
	metrics  *metrics.Auth
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil {
		panic("IdentityProvider is required")
	}
	if opts.Sessions.Issuer == nil || opts.Sessions.Verifier == nil {
		panic("session issuer and verifier are required")
	}
	if opts.Profiles == nil {
		panic("ProfileRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		issuer:   opts.Sessions.Issuer,
		verifier: opts.Sessions.Verifier,
		profiles: opts.Profiles,
		policy:   opts.Policy,
		metrics:  opts.Metrics,
		logger:   logger.With("component", "auth_service"),
	}
}

// AuthResult is the outcome of a successful sign-in or sign-up.
// Token is the signed session artifact to place in the session cookie.
type AuthResult struct {
	Principal domainauth.Principal
	Token     string
	ExpiresAt time.Time
}

// SignIn exchanges credentials for a session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (res *AuthResult, err error) {
	ctx, span := startSpan(ctx, "auth.sign_in")
	start := time.Now()
	defer func() {
		s.metrics.ObserveAttempt(metrics.AuthEvent{Op: "sign_in", Duration: time.Since(start), Err: err})
		endSpan(span, err)
	}()

	email = domainauth.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domainauth.ErrCredentialsRequired
	}

	token, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, providerError("sign in", err)
	}

	return s.startSession(ctx, token)
}

// SignUpInput groups the fields accepted at registration.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
	Username string
}

// Validate checks and normalizes the input. The username defaults to the email's local part.
func (in *SignUpInput) Validate() error {
	in.Email = domainauth.NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return domainauth.ErrCredentialsRequired
	}
	if at := strings.IndexByte(in.Email, '@'); at <= 0 || at == len(in.Email)-1 {
		return domainauth.ErrInvalidEmail
	}
	if len(in.Password) < domainauth.MinPasswordLen {
		return domainauth.ErrWeakPassword
	}
	if strings.TrimSpace(in.Username) == "" {
		in.Username = model.DefaultUsername(in.Email)
	}
	u, err := model.NormalizeUsername(in.Username)
	if err != nil {
		return err
	}
	in.Username = u
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		in.FullName = u
	}
	return nil
}

// SignUp creates an account and its profile, then starts a session for it.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (res *AuthResult, err error) {
	ctx, span := startSpan(ctx, "auth.sign_up")
	start := time.Now()
	defer func() {
		s.metrics.ObserveAttempt(metrics.AuthEvent{Op: "sign_up", Duration: time.Since(start), Err: err})
		endSpan(span, err)
	}()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}

	ident, token, err := s.provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, providerError("sign up", err)
	}
	span.SetAttributes(attribute.String("user_id", ident.UserID))

	if err := s.createProfile(ctx, ident, in); err != nil {
		s.logger.WarnContext(ctx, "account created without profile",
			slog.String("user_id", ident.UserID), slog.Any("error", err))
		if apperrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return s.startSession(ctx, token)
}

// createProfile inserts the profile for a freshly created account. A username lost to a
// concurrent sign-up is retried with a short random suffix so the account is not left
// without a profile.
func (s *AuthService) createProfile(ctx context.Context, ident domainauth.Identity, in SignUpInput) error {
	username := in.Username
	for attempt := 0; ; attempt++ {
		_, err := s.profiles.Create(ctx, model.CreateProfileRequest{
			ID:       ident.UserID,
			Email:    ident.Email,
			FullName: in.FullName,
			Username: username,
		})
		if err == nil || attempt == maxUsernameRetries || !errors.Is(err, model.ErrUsernameTaken) {
			return err
		}
		username = suffixedUsername(in.Username)
		s.logger.InfoContext(ctx, "username taken during sign-up, retrying",
			slog.String("user_id", ident.UserID), slog.String("username", username))
	}
}

const maxUsernameRetries = 3

// suffixedUsername appends "_" and four hex digits, trimming base so the result fits.
func suffixedUsername(base string) string {
	const suffixLen = 5
	if len(base) > model.MaxUsernameLen-suffixLen {
		base = base[:model.MaxUsernameLen-suffixLen]
	}
	return base + "_" + uuid.NewString()[:4]
}

func (s *AuthService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.profiles.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return model.ErrUsernameTaken
	case apperrors.IsNotFound(err):
		return nil
	default:
		return fmt.Errorf("check username: %w", err)
	}
}

func (s *AuthService) startSession(ctx context.Context, token domainauth.IdentityToken) (*AuthResult, error) {
	issued, err := s.issuer.Issue(ctx, token)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Principal: s.policy.Principal(issued.Session),
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
	}, nil
}

// SignOut revokes the session behind raw and drops it from the verifier cache.
func (s *AuthService) SignOut(ctx context.Context, raw string) (err error) {
	ctx, span := startSpan(ctx, "auth.sign_out")
	defer func() { endSpan(span, err) }()

	// Revoke before invalidating so a verify already past the store read cannot
	// re-cache the principal after the cache entry is dropped.
	revokeErr := s.issuer.Revoke(ctx, raw)
	s.verifier.Invalidate(raw)
	if revokeErr != nil {
		return fmt.Errorf("revoke session: %w", revokeErr)
	}
	return nil
}

// Session resolves raw to a principal. A missing artifact yields (nil, nil).
func (s *AuthService) Session(ctx context.Context, raw string) (*domainauth.Principal, error) {
	return s.verifier.Verify(ctx, raw)
}

// providerError keeps AppErrors from the provider intact and wraps transport failures.
func providerError(op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "Identity provider did not respond in time.")
	}
	return fmt.Errorf("%s: %w", op, err)
}

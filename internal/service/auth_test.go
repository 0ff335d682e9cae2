package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/mocks"
	authmocks "github.com/digieduhack/aula-api/internal/mocks/auth"
	"github.com/digieduhack/aula-api/internal/session"
)

type authFixture struct {
	svc      *AuthService
	idp      *authmocks.FakeIdentityProvider
	store    *authmocks.MemorySessionStore
	profiles *mocks.MockProfileRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	idp := authmocks.NewFakeIdentityProvider()
	store := authmocks.NewMemorySessionStore()
	codec, err := session.NewCodec([]byte("0123456789abcdef0123456789abcdef"), nil)
	require.NoError(t, err)
	policy := domainauth.NewAdminPolicy("alumno.buap.mx")

	issuer, err := session.NewIssuer(session.IssuerOptions{Provider: idp, Store: store, Codec: codec})
	require.NoError(t, err)
	verifier, err := session.NewVerifier(session.VerifierOptions{Store: store, Codec: codec, Policy: policy})
	require.NoError(t, err)

	profiles := mocks.NewMockProfileRepository(ctrl)
	svc := NewAuthService(AuthServiceOptions{
		Provider: idp,
		Sessions: AuthSessions{Issuer: issuer, Verifier: verifier},
		Profiles: profiles,
		Policy:   policy,
	})
	return &authFixture{svc: svc, idp: idp, store: store, profiles: profiles}
}

func TestAuthService_SignIn(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.AddAccount("ana@alumno.buap.mx", "secret1")
	f.idp.AddAccount("bo@gmail.com", "secret1")

	res, err := f.svc.SignIn(context.Background(), "  Ana@Alumno.BUAP.mx ", "secret1")
	require.NoError(t, err)
	assert.True(t, res.Principal.IsAdmin)
	assert.Equal(t, "ana@alumno.buap.mx", res.Principal.Email)
	assert.NotEmpty(t, res.Token)

	res, err = f.svc.SignIn(context.Background(), "bo@gmail.com", "secret1")
	require.NoError(t, err)
	assert.False(t, res.Principal.IsAdmin)

	p, err := f.svc.Session(context.Background(), res.Token)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, res.Principal, *p)
}

func TestAuthService_SignInCredentialsRequired(t *testing.T) {
	f := newAuthFixture(t)
	for _, tc := range []struct{ email, password string }{
		{"", "secret1"},
		{"ana@alumno.buap.mx", ""},
		{"   ", "secret1"},
	} {
		_, err := f.svc.SignIn(context.Background(), tc.email, tc.password)
		assert.Equal(t, apperrors.ErrCodeCredentialsRequired, apperrors.GetCode(err))
	}
	assert.Zero(t, f.idp.Calls())
}

func TestAuthService_SignInWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.AddAccount("ana@alumno.buap.mx", "secret1")

	res, err := f.svc.SignIn(context.Background(), "ana@alumno.buap.mx", "nope")
	assert.Nil(t, res)
	assert.True(t, apperrors.IsInvalidCredentials(err))
	assert.Zero(t, f.store.Len(), "no session may be issued")
}

func TestAuthService_SignInProviderTimeout(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.SignInFunc = func(context.Context, string, string) (domainauth.IdentityToken, error) {
		return "", context.DeadlineExceeded
	}
	_, err := f.svc.SignIn(context.Background(), "ana@alumno.buap.mx", "secret1")
	assert.True(t, apperrors.IsTimeout(err))
}

func TestAuthService_SignUpValidationHappensFirst(t *testing.T) {
	tests := []struct {
		name   string
		in     SignUpInput
		code   apperrors.ErrorCode
		reason string
	}{
		{name: "missing email", in: SignUpInput{Password: "secret1"}, code: apperrors.ErrCodeCredentialsRequired},
		{name: "missing password", in: SignUpInput{Email: "a@b.mx"}, code: apperrors.ErrCodeCredentialsRequired},
		{name: "no at", in: SignUpInput{Email: "ana", Password: "secret1"}, code: apperrors.ErrCodeValidation, reason: "INVALID_EMAIL"},
		{name: "trailing at", in: SignUpInput{Email: "ana@", Password: "secret1"}, code: apperrors.ErrCodeValidation, reason: "INVALID_EMAIL"},
		{name: "weak password", in: SignUpInput{Email: "a@b.mx", Password: "12345"}, code: apperrors.ErrCodeValidation, reason: "WEAK_PASSWORD"},
		{
			name:   "bad username",
			in:     SignUpInput{Email: "a@b.mx", Password: "secret1", Username: "no spaces"},
			code:   apperrors.ErrCodeValidation,
			reason: "INVALID_USERNAME",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t) // profiles mock has no expectations
			_, err := f.svc.SignUp(context.Background(), tt.in)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
			assert.Equal(t, tt.reason, apperrors.GetReason(err))
			assert.Zero(t, f.idp.Calls())
		})
	}
}

func TestAuthService_SignUpUsernameTaken(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "ana").Return(&model.Profile{ID: "other"}, nil)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "ana@alumno.buap.mx", Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
	assert.Zero(t, f.idp.Calls())
}

func TestAuthService_SignUp(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "ana.lopez").Return(nil, model.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
			assert.NotEmpty(t, req.ID)
			assert.Equal(t, "ana.lopez@alumno.buap.mx", req.Email)
			assert.Equal(t, "Ana López", req.FullName)
			assert.Equal(t, "ana.lopez", req.Username)
			return &model.Profile{ID: req.ID, Email: req.Email, Username: req.Username}, nil
		})

	res, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:    "Ana.Lopez@alumno.buap.mx",
		Password: "secret1",
		FullName: " Ana López ",
	})
	require.NoError(t, err)
	assert.True(t, res.Principal.IsAdmin)
	assert.Equal(t, 1, f.store.Len())
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.AddAccount("ana@alumno.buap.mx", "secret1")
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "ana").Return(nil, model.ErrProfileNotFound)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "ana@alumno.buap.mx", Password: "secret1"})
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.GetField(err))
}

func TestAuthService_SignUpShortUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "x1").Return(nil, model.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
			assert.Equal(t, "x1", req.Username)
			return &model.Profile{ID: req.ID, Email: req.Email, Username: req.Username}, nil
		})

	res, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:    "x@alumno.buap.mx",
		Password: "secret1",
		Username: "x1",
	})
	require.NoError(t, err)
	assert.True(t, res.Principal.IsAdmin)
	assert.NotEmpty(t, res.Token)

	p, err := f.svc.Session(context.Background(), res.Token)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.IsAdmin)
}

func TestAuthService_SignUpRetriesTakenUsername(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "x1").Return(nil, model.ErrProfileNotFound)

	var tried []string
	gomock.InOrder(
		f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
				tried = append(tried, req.Username)
				return nil, model.ErrUsernameTaken.WithCause(errors.New("unique violation"))
			}),
		f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
				tried = append(tried, req.Username)
				return &model.Profile{ID: req.ID, Username: req.Username}, nil
			}),
	)

	res, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "x@alumno.buap.mx", Password: "secret1", Username: "x1"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Len())
	require.Len(t, tried, 2)
	assert.Equal(t, "x1", tried[0])
	assert.Regexp(t, `^x1_[0-9a-f]{4}$`, tried[1])
	assert.True(t, res.Principal.IsAdmin)
}

func TestAuthService_SignUpProfileConflict(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "ana").Return(nil, model.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, model.ErrUsernameTaken).Times(maxUsernameRetries + 1)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "ana@alumno.buap.mx", Password: "secret1"})
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
	assert.Zero(t, f.store.Len())
}

func TestAuthService_SignUpProfileFailureNotRetried(t *testing.T) {
	f := newAuthFixture(t)
	f.profiles.EXPECT().GetByUsername(gomock.Any(), "ana").Return(nil, model.ErrProfileNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset")).Times(1)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "ana@alumno.buap.mx", Password: "secret1"})
	assert.ErrorContains(t, err, "create profile")
}

func TestSuffixedUsername(t *testing.T) {
	assert.Regexp(t, `^ana_[0-9a-f]{4}$`, suffixedUsername("ana"))

	long := suffixedUsername("abcdefghijklmnopqrstuvwxyz0123456789")
	assert.Len(t, long, model.MaxUsernameLen)
	_, err := model.NormalizeUsername(long)
	assert.NoError(t, err)
}

func TestAuthService_SignOut(t *testing.T) {
	f := newAuthFixture(t)
	f.idp.AddAccount("bo@gmail.com", "secret1")
	res, err := f.svc.SignIn(context.Background(), "bo@gmail.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Session(context.Background(), res.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.SignOut(context.Background(), res.Token))

	p, err := f.svc.Session(context.Background(), res.Token)
	assert.Nil(t, p)
	assert.True(t, apperrors.IsSessionInvalid(err))
}

func TestAuthService_SessionWithoutCookie(t *testing.T) {
	f := newAuthFixture(t)
	p, err := f.svc.Session(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNewAuthService_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
}

// sessionCalls records the order in which sign-out touches the session layer.
type sessionCalls struct {
	calls     []string
	revokeErr error
}

func (s *sessionCalls) Issue(context.Context, domainauth.IdentityToken) (session.Issued, error) {
	return session.Issued{}, nil
}

func (s *sessionCalls) Revoke(context.Context, string) error {
	s.calls = append(s.calls, "revoke")
	return s.revokeErr
}

func (s *sessionCalls) Verify(context.Context, string) (*domainauth.Principal, error) {
	return nil, nil //nolint:nilnil // unused by sign-out
}

func (s *sessionCalls) Invalidate(string) { s.calls = append(s.calls, "invalidate") }

func TestAuthService_SignOutRevokesBeforeInvalidating(t *testing.T) {
	tests := []struct {
		name      string
		revokeErr error
	}{
		{name: "revoked"},
		{name: "store down", revokeErr: errors.New("redis: connection refused")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sessions := &sessionCalls{revokeErr: tt.revokeErr}
			svc := NewAuthService(AuthServiceOptions{
				Provider: authmocks.NewFakeIdentityProvider(),
				Sessions: AuthSessions{Issuer: sessions, Verifier: sessions},
				Profiles: mocks.NewMockProfileRepository(ctrl),
			})

			err := svc.SignOut(context.Background(), "raw-cookie")
			assert.Equal(t, []string{"revoke", "invalidate"}, sessions.calls)
			if tt.revokeErr != nil {
				assert.ErrorIs(t, err, tt.revokeErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

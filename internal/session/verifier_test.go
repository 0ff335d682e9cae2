package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/mocks"
	"github.com/digieduhack/aula-api/internal/ports"
)

func TestVerifier_NoCookie(t *testing.T) {
	f := newFixture(t)
	p, err := f.verifier.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 1, f.rec.outcomes[OutcomeAnonymous])
}

func TestVerifier_ValidSession(t *testing.T) {
	tests := []struct {
		email   string
		isAdmin bool
	}{
		{email: "ana@alumno.buap.mx", isAdmin: true},
		{email: "bo@gmail.com", isAdmin: false},
		{email: "eve@evilalumno.buap.mx", isAdmin: false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			f := newFixture(t)
			out := f.issue(t, tt.email)

			p, err := f.verifier.Verify(context.Background(), out.Token)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, out.Session.UserID, p.UserID)
			assert.Equal(t, tt.email, p.Email)
			assert.Equal(t, tt.isAdmin, p.IsAdmin)
		})
	}
}

func TestVerifier_InvalidArtifacts(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	for name, raw := range map[string]string{
		"garbage":   "abc",
		"truncated": out.Token[:len(out.Token)-4],
	} {
		t.Run(name, func(t *testing.T) {
			p, err := f.verifier.Verify(context.Background(), raw)
			assert.Nil(t, p)
			assert.True(t, apperrors.IsSessionInvalid(err))
		})
	}
}

func TestVerifier_Expired(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	f.clock.Advance(DefaultTTL + time.Second)
	_, err := f.verifier.Verify(context.Background(), out.Token)
	assert.True(t, apperrors.IsSessionInvalid(err))
	assert.Equal(t, 1, f.rec.outcomes[OutcomeInvalid])
}

func TestVerifier_RevokedAfterInvalidate(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	_, err := f.verifier.Verify(context.Background(), out.Token)
	require.NoError(t, err)

	require.NoError(t, f.issuer.Revoke(context.Background(), out.Token))
	f.verifier.Invalidate(out.Token)

	_, err = f.verifier.Verify(context.Background(), out.Token)
	assert.True(t, apperrors.IsSessionInvalid(err))
}

func TestVerifier_CachesUntilTTL(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), out.Session.ID).Return(out.Session, nil).Times(2)

	v, err := NewVerifier(VerifierOptions{
		Store: store, Codec: f.codec, Now: f.clock.Now, CacheTTL: 10 * time.Second, Recorder: f.rec,
	})
	require.NoError(t, err)

	for range 3 {
		_, err = v.Verify(context.Background(), out.Token)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.rec.outcomes[OutcomeCached])

	f.clock.Advance(10 * time.Second)
	_, err = v.Verify(context.Background(), out.Token)
	require.NoError(t, err)
}

func TestVerifier_CacheCappedAtSessionExpiry(t *testing.T) {
	f := newFixture(t)
	iss, err := NewIssuer(IssuerOptions{
		Provider: f.idp, Store: f.store, Codec: f.codec, TTL: 3 * time.Second, Now: f.clock.Now,
	})
	require.NoError(t, err)
	out, err := iss.Issue(context.Background(), f.signIn(t, "ana@alumno.buap.mx"))
	require.NoError(t, err)

	_, err = f.verifier.Verify(context.Background(), out.Token)
	require.NoError(t, err)

	f.clock.Advance(3 * time.Second)
	_, err = f.verifier.Verify(context.Background(), out.Token)
	assert.True(t, apperrors.IsSessionInvalid(err), "cache must not outlive the session")
}

func TestVerifier_StoreFailures(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{name: "missing record", err: ports.ErrSessionNotFound, want: apperrors.ErrCodeSessionInvalid},
		{name: "timeout", err: context.DeadlineExceeded, want: apperrors.ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: apperrors.ErrCodeCanceled},
		{name: "unavailable", err: errBoom, want: apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			store := mocks.NewMockSessionStore(ctrl)
			store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(domainauth.Session{}, tt.err)

			v, err := NewVerifier(VerifierOptions{Store: store, Codec: f.codec, Now: f.clock.Now})
			require.NoError(t, err)

			p, err := v.Verify(context.Background(), out.Token)
			assert.Nil(t, p)
			assert.Equal(t, tt.want, apperrors.GetCode(err))
		})
	}
}

func TestVerifier_RecordMismatch(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockSessionStore(ctrl)
	other := out.Session
	other.UserID = "someone-else"
	store.EXPECT().Get(gomock.Any(), out.Session.ID).Return(other, nil)

	v, err := NewVerifier(VerifierOptions{Store: store, Codec: f.codec, Now: f.clock.Now})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), out.Token)
	assert.True(t, apperrors.IsSessionInvalid(err))
}

func TestVerifier_ConcurrentUse(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")
	v, err := NewVerifier(VerifierOptions{Store: f.store, Codec: f.codec, Now: f.clock.Now})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := v.Verify(context.Background(), out.Token)
			if err == nil && p.UserID != out.Session.UserID {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestVerifier_SignOutDuringLookupIsNotCached(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockSessionStore(ctrl)

	var v *Verifier
	gomock.InOrder(
		// The record is read, then the session is revoked before the result is cached.
		store.EXPECT().Get(gomock.Any(), out.Session.ID).DoAndReturn(
			func(context.Context, string) (domainauth.Session, error) {
				v.Invalidate(out.Token)
				return out.Session, nil
			}),
		store.EXPECT().Get(gomock.Any(), out.Session.ID).Return(domainauth.Session{}, ports.ErrSessionNotFound),
	)

	v, err := NewVerifier(VerifierOptions{Store: store, Codec: f.codec, Now: f.clock.Now, CacheTTL: time.Minute})
	require.NoError(t, err)

	p, err := v.Verify(context.Background(), out.Token)
	require.NoError(t, err, "the lookup that raced sign-out still sees the session")
	require.NotNil(t, p)

	p, err = v.Verify(context.Background(), out.Token)
	assert.Nil(t, p)
	assert.True(t, apperrors.IsSessionInvalid(err))
}

func TestVerifier_CanceledCallerDoesNotFailSharedLookup(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockSessionStore(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	store.EXPECT().Get(gomock.Any(), out.Session.ID).DoAndReturn(
		func(ctx context.Context, _ string) (domainauth.Session, error) {
			close(started)
			select {
			case <-release:
				return out.Session, nil
			case <-ctx.Done():
				return domainauth.Session{}, ctx.Err()
			}
		}).Times(1)

	v, err := NewVerifier(VerifierOptions{Store: store, Codec: f.codec, Now: f.clock.Now, CacheTTL: time.Minute})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := v.Verify(ctx, out.Token)
		firstErr <- err
	}()
	<-started

	type result struct {
		p   *domainauth.Principal
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := v.Verify(context.Background(), out.Token)
		second <- result{p, err}
	}()

	cancel()
	err = <-firstErr
	assert.Equal(t, apperrors.ErrCodeCanceled, apperrors.GetCode(err))

	close(release)
	r := <-second
	require.NoError(t, r.err)
	require.NotNil(t, r.p)
	assert.Equal(t, out.Session.UserID, r.p.UserID)
}

func TestVerifier_SharedLookupHasItsOwnTimeout(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t, "ana@alumno.buap.mx")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), out.Session.ID).DoAndReturn(
		func(ctx context.Context, _ string) (domainauth.Session, error) {
			<-ctx.Done()
			return domainauth.Session{}, ctx.Err()
		})

	v, err := NewVerifier(VerifierOptions{Store: store, Codec: f.codec, Now: f.clock.Now, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), out.Token)
	assert.True(t, apperrors.IsTimeout(err))
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	authmocks "github.com/digieduhack/aula-api/internal/mocks/auth"
	"github.com/digieduhack/aula-api/internal/testutil"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

type countingRecorder struct {
	issued   int
	revoked  int
	outcomes map[string]int
}

func (r *countingRecorder) SessionIssued()  { r.issued++ }
func (r *countingRecorder) SessionRevoked() { r.revoked++ }
func (r *countingRecorder) ObserveVerification(outcome string) {
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[outcome]++
}

type fixture struct {
	clock    *testutil.Clock
	idp      *authmocks.FakeIdentityProvider
	store    *authmocks.MemorySessionStore
	codec    *Codec
	issuer   *Issuer
	verifier *Verifier
	rec      *countingRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testutil.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	store := authmocks.NewMemorySessionStore()
	store.Now = clock.Now
	codec, err := NewCodec(testKey, clock.Now)
	require.NoError(t, err)

	f := &fixture{
		clock: clock,
		idp:   authmocks.NewFakeIdentityProvider(),
		store: store,
		codec: codec,
		rec:   &countingRecorder{},
	}
	f.issuer, err = NewIssuer(IssuerOptions{
		Provider: f.idp,
		Store:    store,
		Codec:    codec,
		Now:      clock.Now,
		Recorder: f.rec,
	})
	require.NoError(t, err)
	f.verifier, err = NewVerifier(VerifierOptions{
		Store:    store,
		Codec:    codec,
		Policy:   domainauth.NewAdminPolicy(""),
		Now:      clock.Now,
		Recorder: f.rec,
	})
	require.NoError(t, err)
	return f
}

// signIn registers an account with the fake provider and returns a token for it.
func (f *fixture) signIn(t *testing.T, email string) domainauth.IdentityToken {
	t.Helper()
	f.idp.AddAccount(email, "secret1")
	tok, err := f.idp.SignIn(context.Background(), email, "secret1")
	require.NoError(t, err)
	return tok
}

func (f *fixture) issue(t *testing.T, email string) Issued {
	t.Helper()
	out, err := f.issuer.Issue(context.Background(), f.signIn(t, email))
	require.NoError(t, err)
	return out
}

var errBoom = errors.New("boom")

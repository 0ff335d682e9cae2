package session

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/ports"
)

// DefaultCacheTTL bounds how long a verified principal is served from memory.
const DefaultCacheTTL = 10 * time.Second

// DefaultVerifyTimeout bounds a shared store lookup, independent of any single caller.
const DefaultVerifyTimeout = 5 * time.Second

// Verification outcomes passed to Recorder.ObserveVerification.
const (
	OutcomeValid     = "valid"
	OutcomeCached    = "cached"
	OutcomeAnonymous = "anonymous"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

var errSessionMismatch = errors.New("session record does not match artifact")

// VerifierOptions groups dependencies for NewVerifier.
type VerifierOptions struct {
	Store     ports.SessionStore
	Codec     *Codec
	Policy    domainauth.AdminPolicy
	CacheTTL  time.Duration    // Optional, defaults to DefaultCacheTTL; negative disables caching
	CacheSize int              // Optional
	Timeout   time.Duration    // Optional, defaults to DefaultVerifyTimeout
	Now       func() time.Time // Optional, defaults to time.Now
	Recorder  Recorder         // Optional
}

// Verifier turns a raw session cookie into a Principal.
// It never writes the cookie or extends the server record.
type Verifier struct {
	store    ports.SessionStore
	codec    *Codec
	policy   domainauth.AdminPolicy
	cacheTTL time.Duration
	timeout  time.Duration
	cache    *principalCache
	group    singleflight.Group
	now      func() time.Time
	rec      Recorder
}

// NewVerifier constructs a Verifier. Store and Codec are required.
func NewVerifier(opts VerifierOptions) (*Verifier, error) {
	if opts.Store == nil {
		return nil, errors.New("session store is required")
	}
	if opts.Codec == nil {
		return nil, errors.New("session codec is required")
	}
	v := &Verifier{
		store:    opts.Store,
		codec:    opts.Codec,
		policy:   opts.Policy,
		cacheTTL: opts.CacheTTL,
		timeout:  opts.Timeout,
		now:      opts.Now,
		rec:      opts.Recorder,
	}
	if v.cacheTTL == 0 {
		v.cacheTTL = DefaultCacheTTL
	}
	if v.timeout <= 0 {
		v.timeout = DefaultVerifyTimeout
	}
	if v.now == nil {
		v.now = time.Now
	}
	if v.rec == nil {
		v.rec = nopRecorder{}
	}
	v.cache = newPrincipalCache(opts.CacheSize, v.now)
	return v, nil
}

// Verify returns the principal for raw. An empty raw yields (nil, nil); any artifact that is
// malformed, tampered, expired or revoked yields SESSION_INVALID.
//
// Concurrent lookups of the same cookie share one store read. The shared read runs
// detached from any caller's cancellation under its own timeout; each caller still
// returns as soon as its own ctx is done.
func (v *Verifier) Verify(ctx context.Context, raw string) (*domainauth.Principal, error) {
	if raw == "" {
		v.rec.ObserveVerification(OutcomeAnonymous)
		return nil, nil //nolint:nilnil // anonymous is not an error
	}

	key := cacheKey(raw)
	if p, ok := v.cache.get(key); ok {
		v.rec.ObserveVerification(OutcomeCached)
		return &p, nil
	}

	ch := v.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.timeout)
		defer cancel()
		return v.verify(sctx, key, raw)
	})

	var (
		res any
		err error
	)
	select {
	case <-ctx.Done():
		err = contextError(ctx.Err())
	case r := <-ch:
		res, err = r.Val, r.Err
	}
	if err != nil {
		if apperrors.IsSessionInvalid(err) {
			v.rec.ObserveVerification(OutcomeInvalid)
		} else {
			v.rec.ObserveVerification(OutcomeError)
		}
		return nil, err
	}

	p, _ := res.(domainauth.Principal)
	v.rec.ObserveVerification(OutcomeValid)
	return &p, nil
}

func (v *Verifier) verify(ctx context.Context, key, raw string) (domainauth.Principal, error) {
	sess, err := v.codec.Decode(raw)
	if err != nil {
		return domainauth.Principal{}, apperrors.SessionInvalid(err)
	}

	gen := v.cache.snapshot()
	rec, err := v.store.Get(ctx, sess.ID)
	switch {
	case errors.Is(err, ports.ErrSessionNotFound):
		return domainauth.Principal{}, apperrors.SessionInvalid(err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domainauth.Principal{}, contextError(err)
	case err != nil:
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Could not verify session.")
	}
	if rec.UserID != sess.UserID || rec.Expired(v.now()) {
		return domainauth.Principal{}, apperrors.SessionInvalid(errSessionMismatch)
	}

	p := v.policy.Principal(sess)
	if v.cacheTTL > 0 {
		v.cache.set(key, p, min(v.cacheTTL, sess.ExpiresAt.Sub(v.now())), gen)
	}
	return p, nil
}

// Invalidate drops any cached principal for raw and keeps lookups already in flight
// from caching it again.
func (v *Verifier) Invalidate(raw string) {
	if raw == "" {
		return
	}
	key := cacheKey(raw)
	v.cache.invalidate(key, v.timeout+max(v.cacheTTL, 0))
	v.group.Forget(key)
}

func contextError(err error) error {
	if errors.Is(err, context.Canceled) {
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, "Request was canceled.")
	}
	return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "Session store did not respond in time.")
}

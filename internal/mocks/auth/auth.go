package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*FakeIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
)

// ErrUnknownToken is returned by FakeIdentityProvider for tokens it did not mint.
var ErrUnknownToken = errors.New("unknown identity token")

type fakeAccount struct {
	identity domainauth.Identity
	password string
}

// FakeIdentityProvider simulates an identity provider with in-memory accounts and
// deterministic tokens. The Func fields override the default behavior when set.
type FakeIdentityProvider struct {
	SignInFunc func(ctx context.Context, email, password string) (domainauth.IdentityToken, error)
	SignUpFunc func(ctx context.Context, email, password string) (domainauth.Identity, domainauth.IdentityToken, error)
	VerifyFunc func(ctx context.Context, raw domainauth.IdentityToken) (domainauth.Identity, error)

	mu       sync.Mutex
	accounts map[string]fakeAccount
	tokens   map[domainauth.IdentityToken]domainauth.Identity
	seq      int
	calls    int
}

// NewFakeIdentityProvider creates an empty FakeIdentityProvider.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{
		accounts: make(map[string]fakeAccount),
		tokens:   make(map[domainauth.IdentityToken]domainauth.Identity),
	}
}

// AddAccount registers an account and returns its identity.
func (f *FakeIdentityProvider) AddAccount(email, password string) domainauth.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(email, password)
}

// Calls reports how many port methods have been invoked.
func (f *FakeIdentityProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeIdentityProvider) SignIn(ctx context.Context, email, password string) (domainauth.IdentityToken, error) {
	f.count()
	if f.SignInFunc != nil {
		return f.SignInFunc(ctx, email, password)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.accounts[domainauth.NormalizeEmail(email)]
	if !ok || acct.password != password {
		return "", domainauth.ErrInvalidCredentials
	}
	return f.mintLocked(acct.identity), nil
}

func (f *FakeIdentityProvider) SignUp(
	ctx context.Context,
	email, password string,
) (domainauth.Identity, domainauth.IdentityToken, error) {
	f.count()
	if f.SignUpFunc != nil {
		return f.SignUpFunc(ctx, email, password)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[domainauth.NormalizeEmail(email)]; exists {
		return domainauth.Identity{}, "", domainauth.ErrEmailTaken
	}
	id := f.addLocked(email, password)
	return id, f.mintLocked(id), nil
}

func (f *FakeIdentityProvider) VerifyIdentityToken(
	ctx context.Context,
	raw domainauth.IdentityToken,
) (domainauth.Identity, error) {
	f.count()
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, raw)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[raw]
	if !ok {
		return domainauth.Identity{}, ErrUnknownToken
	}
	return id, nil
}

func (f *FakeIdentityProvider) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *FakeIdentityProvider) addLocked(email, password string) domainauth.Identity {
	f.ensureLocked()
	f.seq++
	id := domainauth.Identity{
		UserID: fmt.Sprintf("fake-user-%d", f.seq),
		Email:  domainauth.NormalizeEmail(email),
	}
	f.accounts[id.Email] = fakeAccount{identity: id, password: password}
	return id
}

func (f *FakeIdentityProvider) mintLocked(id domainauth.Identity) domainauth.IdentityToken {
	f.ensureLocked()
	f.seq++
	tok := domainauth.IdentityToken(fmt.Sprintf("fake-token-%d", f.seq))
	f.tokens[tok] = id
	return tok
}

func (f *FakeIdentityProvider) ensureLocked() {
	if f.accounts == nil {
		f.accounts = make(map[string]fakeAccount)
	}
	if f.tokens == nil {
		f.tokens = make(map[domainauth.IdentityToken]domainauth.Identity)
	}
}

// MemorySessionStore is an in-memory session store for unit tests.
// Records past their ExpiresAt are reported as missing.
type MemorySessionStore struct {
	// Now defaults to time.Now.
	Now func() time.Time

	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[string]domainauth.Session)
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || sess.Expired(m.now()) {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored records, expired ones included.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemorySessionStore) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// ErrNotFound is returned by MemorySessionStore when a record is not present.
var ErrNotFound = ports.ErrSessionNotFound

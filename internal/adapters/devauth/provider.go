package devauth

// Package devauth provides a config-seeded, in-memory account store for local development.
// Paired with the built-in identity provider it replaces Postgres-backed accounts.

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/digieduhack/aula-api/internal/adapters/localidp"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/ports"
)

// Seed is a development account created at startup.
type Seed struct {
	Email    string
	Password string
}

// ErrAccountNotFound is returned when no account matches an email.
var ErrAccountNotFound = apperrors.NotFound("account not found")

// accountNamespace scopes development account IDs so they stay stable across restarts.
var accountNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:aula:devauth"))

// AccountStore implements ports.AccountStore in memory.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]ports.Account
	now      func() time.Time
}

// NewAccountStore creates a store holding the given seed accounts.
func NewAccountStore(seeds ...Seed) (*AccountStore, error) {
	s := &AccountStore{accounts: make(map[string]ports.Account), now: time.Now}
	for _, seed := range seeds {
		if seed.Email == "" || seed.Password == "" {
			return nil, errors.New("dev auth: seed email and password are required")
		}
		hash, err := localidp.HashPassword(seed.Password)
		if err != nil {
			return nil, fmt.Errorf("dev auth: hash seed password: %w", err)
		}
		if _, err := s.Create(context.Background(), seed.Email, hash); err != nil {
			return nil, fmt.Errorf("dev auth: seed %s: %w", seed.Email, err)
		}
	}
	return s, nil
}

// Create stores an account. IDs derive from the email so they are stable.
func (s *AccountStore) Create(_ context.Context, email, passwordHash string) (ports.Account, error) {
	email = domainauth.NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return ports.Account{}, domainauth.ErrEmailTaken
	}
	acct := ports.Account{
		ID:           uuid.NewSHA1(accountNamespace, []byte(email)).String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.accounts[email] = acct
	return acct, nil
}

// GetByEmail returns the account for email or ErrAccountNotFound.
func (s *AccountStore) GetByEmail(_ context.Context, email string) (ports.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[domainauth.NormalizeEmail(email)]
	if !ok {
		return ports.Account{}, ErrAccountNotFound
	}
	return acct, nil
}

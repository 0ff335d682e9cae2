package data

import (
	"context"
	"database/sql"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/ports"
)

const (
	accountInsertQuery = `
		INSERT INTO identity_accounts (email, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id::text AS id, email, password_hash, created_at`

	accountGetByEmailQuery = `
		SELECT id::text AS id, email, password_hash, created_at
		FROM identity_accounts
		WHERE email = $1`
)

// AccountRepo stores credentials for the built-in identity provider.
// Emails are stored lowercased.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with real time provider.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: systemClock{}}
}

// Create inserts an account; a registered email fails with domainauth.ErrEmailTaken.
func (r *AccountRepo) Create(ctx context.Context, email, passwordHash string) (ports.Account, error) {
	out, err := pgxutil.QueryOne[ports.Account](ctx, r.DB, accountInsertQuery,
		domainauth.NormalizeEmail(email), passwordHash, r.timeProvider.Now().UTC())
	if err != nil {
		mapped := mapErr(err, nil)
		if apperrors.IsConflict(mapped) {
			return ports.Account{}, domainauth.ErrEmailTaken.WithCause(err)
		}
		return ports.Account{}, mapped
	}
	return out, nil
}

// GetByEmail retrieves an account by email, case-insensitively.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (ports.Account, error) {
	out, err := pgxutil.QueryOne[ports.Account](ctx, r.DB, accountGetByEmailQuery, domainauth.NormalizeEmail(email))
	if err != nil {
		return ports.Account{}, mapErr(err, ErrAccountNotFound)
	}
	return out, nil
}

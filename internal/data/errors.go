package data

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// ErrAccountNotFound is returned when no account matches an email.
var ErrAccountNotFound = &apperrors.AppError{
	Code:    apperrors.ErrCodeNotFound,
	Reason:  "ACCOUNT_NOT_FOUND",
	Message: "Account not found.",
}

// mapErr maps a driver error to an AppError, substituting notFound for missing rows.
func mapErr(err error, notFound *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, pgx.ErrNoRows) {
		return notFound.WithCause(err)
	}
	return apperrors.MapDBError(err)
}

// isUUID reports whether id can address a UUID primary key.
// Lookups with malformed ids short-circuit to not found instead of a cast error.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

package auth

import (
	"strings"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// Credential and account errors shared by identity providers and account stores.
var (
	ErrEmailTaken          = apperrors.ConflictReason("email", "EMAIL_TAKEN", "An account with this email already exists.")
	ErrInvalidEmail        = apperrors.ValidationReason("email", "INVALID_EMAIL", "Email address is not valid.")
	ErrWeakPassword        = apperrors.ValidationReason("password", "WEAK_PASSWORD", "Password must be at least 6 characters.")
	ErrCredentialsRequired = &apperrors.AppError{
		Code:    apperrors.ErrCodeCredentialsRequired,
		Reason:  "CREDENTIALS_REQUIRED",
		Message: "Email and password are required.",
	}
	ErrInvalidCredentials = &apperrors.AppError{
		Code:    apperrors.ErrCodeInvalidCredentials,
		Reason:  "INVALID_CREDENTIALS",
		Message: "Invalid email or password.",
	}
	ErrSignUpUnsupported = &apperrors.AppError{
		Code:    apperrors.ErrCodeSignUpUnsupported,
		Reason:  "SIGN_UP_UNSUPPORTED",
		Message: "Sign-up is not available with the configured identity provider.",
	}
)

// MinPasswordLen is the shortest password accepted at sign-up.
const MinPasswordLen = 6

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package errors defines the application error taxonomy shared by use cases,
// repositories and the HTTP boundary.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeCredentialsRequired indicates a sign-in or sign-up request without email or password.
	ErrCodeCredentialsRequired ErrorCode = "CREDENTIALS_REQUIRED"
	// ErrCodeInvalidCredentials indicates the identity provider rejected the credentials.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeSessionIssuanceFailed indicates no session could be minted from an identity token.
	ErrCodeSessionIssuanceFailed ErrorCode = "SESSION_ISSUANCE_FAILED"
	// ErrCodeSessionInvalid indicates a present but invalid, expired, tampered or revoked session cookie.
	ErrCodeSessionInvalid ErrorCode = "SESSION_INVALID"
	// ErrCodeSessionRequired indicates an anonymous request to a resource that needs a session.
	ErrCodeSessionRequired ErrorCode = "SESSION_REQUIRED"
	// ErrCodeForbidden indicates an authenticated principal without the required privilege.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeForeignKey indicates a foreign key constraint violation.
	ErrCodeForeignKey ErrorCode = "FOREIGN_KEY"
	// ErrCodeSignUpUnsupported indicates the configured identity provider cannot create accounts.
	ErrCodeSignUpUnsupported ErrorCode = "SIGN_UP_UNSUPPORTED"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL"
	// ErrCodeTimeout indicates an upstream dependency did not answer in time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Reason is a finer-grained machine readable cause within Code (e.g. INVALID_DIFFICULTY)
	Reason string
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same Code and Reason.
// Sentinel AppErrors declared at package level therefore match copies
// returned through WithCause.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) || t == nil {
		return false
	}
	if t.Reason == "" {
		return e == t
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

// WithCause returns a copy of e carrying cause.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
	}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
	}
}

// ConflictReason creates a Conflict error with a machine readable reason and field.
func ConflictReason(field, reason, message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Reason:  reason,
		Message: message,
		Field:   field,
	}
}

// ValidationReason creates a Validation error for field with a machine readable reason.
func ValidationReason(field, reason, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Reason:  reason,
		Message: message,
		Field:   field,
	}
}

// CredentialsRequired creates a CREDENTIALS_REQUIRED error.
func CredentialsRequired(message string) *AppError {
	return &AppError{
		Code:    ErrCodeCredentialsRequired,
		Message: message,
	}
}

// InvalidCredentials creates an INVALID_CREDENTIALS error.
func InvalidCredentials(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCredentials,
		Message: message,
	}
}

// SessionInvalid creates a SESSION_INVALID error wrapping cause.
func SessionInvalid(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeSessionInvalid,
		Message: "Session is invalid or has expired.",
		Cause:   cause,
	}
}

// SessionIssuanceFailed creates a SESSION_ISSUANCE_FAILED error wrapping cause.
func SessionIssuanceFailed(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeSessionIssuanceFailed,
		Message: "Could not start a session. Please try again.",
		Cause:   cause,
	}
}

// SessionRequired creates a SESSION_REQUIRED error.
func SessionRequired(message string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionRequired,
		Message: message,
	}
}

// Forbidden creates a new Forbidden error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForbidden,
		Message: message,
	}
}

// ForeignKey creates a new ForeignKey error.
func ForeignKey(message string) *AppError {
	return &AppError{
		Code:    ErrCodeForeignKey,
		Message: message,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsSessionInvalid checks if an error is a SESSION_INVALID error.
func IsSessionInvalid(err error) bool {
	return isCode(err, ErrCodeSessionInvalid)
}

// IsInvalidCredentials checks if an error is an INVALID_CREDENTIALS error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetReason returns the Reason from an error, or empty string if not an AppError.
func GetReason(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

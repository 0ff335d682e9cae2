package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// StatusClientClosedRequest is the non-standard status used when the client went away.
const StatusClientClosedRequest = 499

const internalErrorMessage = "Internal server error."

//nolint:gochecknoglobals // static read-only lookup
var statusByCode = map[apperrors.ErrorCode]int{
	apperrors.ErrCodeCredentialsRequired:   http.StatusBadRequest,
	apperrors.ErrCodeInvalidCredentials:    http.StatusBadRequest,
	apperrors.ErrCodeSessionIssuanceFailed: http.StatusBadRequest,
	apperrors.ErrCodeSessionInvalid:        http.StatusUnauthorized,
	apperrors.ErrCodeSessionRequired:       http.StatusUnauthorized,
	apperrors.ErrCodeForbidden:             http.StatusForbidden,
	apperrors.ErrCodeValidation:            http.StatusBadRequest,
	apperrors.ErrCodeNotFound:              http.StatusNotFound,
	apperrors.ErrCodeConflict:              http.StatusConflict,
	apperrors.ErrCodeForeignKey:            http.StatusConflict,
	apperrors.ErrCodeSignUpUnsupported:     http.StatusBadRequest,
	apperrors.ErrCodeTimeout:               http.StatusGatewayTimeout,
	apperrors.ErrCodeCanceled:              StatusClientClosedRequest,
	apperrors.ErrCodeInternal:              http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an application error code.
func StatusFor(code apperrors.ErrorCode) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteAppError maps err to its status and JSON body. This is the only place errors
// are translated for clients. Internal causes are logged, never returned.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := renderError(err)
	if status >= http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("code", body.Code),
			slog.Any("error", err),
		)
	}
	WriteJSON(w, status, body)
}

func renderError(err error) (int, ErrorBody) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			appErr = &apperrors.AppError{Code: apperrors.ErrCodeTimeout, Message: "Upstream service did not respond in time."}
		case errors.Is(err, context.Canceled):
			appErr = &apperrors.AppError{Code: apperrors.ErrCodeCanceled, Message: "Request was canceled."}
		default:
			appErr = &apperrors.AppError{Code: apperrors.ErrCodeInternal, Message: internalErrorMessage}
		}
	}

	status := StatusFor(appErr.Code)
	msg := appErr.Message
	switch {
	case status == http.StatusInternalServerError:
		msg = internalErrorMessage
	case msg == "":
		msg = http.StatusText(status)
	}
	return status, ErrorBody{
		Error:  msg,
		Code:   string(appErr.Code),
		Reason: appErr.Reason,
		Field:  appErr.Field,
	}
}

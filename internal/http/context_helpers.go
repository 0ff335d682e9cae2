package httpx

import (
	"context"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

// principalKey is an unexported context key type to avoid collisions across packages.
type principalKey struct{}

// SetPrincipalInContext returns a child context that carries the given principal.
// If principal is nil, the original ctx is returned unchanged.
func SetPrincipalInContext(ctx context.Context, principal *domainauth.Principal) context.Context {
	if principal == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the caller's principal, or nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *domainauth.Principal {
	if p, ok := ctx.Value(principalKey{}).(*domainauth.Principal); ok {
		return p
	}
	return nil
}

// requestInfo collects per-request facts for the access log.
type requestInfo struct {
	userID string
}

type requestInfoKey struct{}

func withRequestInfo(ctx context.Context, info *requestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// notePrincipal records the principal's user ID for the access log, if one is being kept.
func notePrincipal(ctx context.Context, principal *domainauth.Principal) {
	if principal == nil {
		return
	}
	if info, ok := ctx.Value(requestInfoKey{}).(*requestInfo); ok {
		info.userID = principal.UserID
	}
}

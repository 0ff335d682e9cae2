package httpx

import (
	"context"
	"net/http"

	"github.com/digieduhack/aula-api/internal/authz"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// SessionResolver resolves a raw session artifact to a principal.
// A missing artifact resolves to (nil, nil).
type SessionResolver interface {
	Session(ctx context.Context, raw string) (*domainauth.Principal, error)
}

// Guard applies the authorization gate to routes.
type Guard struct {
	Sessions SessionResolver
	Cookies  *SessionCookies
}

// resolve returns the caller's principal. An invalid cookie is cleared and
// reported as SESSION_INVALID; infrastructure failures are returned as-is.
func (g *Guard) resolve(w http.ResponseWriter, r *http.Request) (*domainauth.Principal, error) {
	raw := g.Cookies.Read(r)
	if raw == "" {
		return nil, nil
	}
	p, err := g.Sessions.Session(r.Context(), raw)
	if err != nil {
		if apperrors.IsSessionInvalid(err) {
			g.Cookies.Clear(w, r)
		}
		return nil, err
	}
	notePrincipal(r.Context(), p)
	return p, nil
}

// Require wraps a JSON route. Denials are written as SESSION_INVALID, SESSION_REQUIRED
// or FORBIDDEN errors. Public routes are passed through without reading the cookie.
func (g *Guard) Require(class authz.Class, next http.Handler) http.Handler {
	if class == authz.Public {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.resolve(w, r)
		if err != nil {
			WriteAppError(w, r, err)
			return
		}
		if d := authz.Decide(class, p, r.URL.RequestURI()); !d.Allowed() {
			WriteAppError(w, r, d.Err())
			return
		}
		next.ServeHTTP(w, r.WithContext(SetPrincipalInContext(r.Context(), p)))
	})
}

// Pages wraps the page fallback. The class comes from the request path and denials
// redirect: anonymous callers to the login page, non-admins to the dashboard.
// An invalid cookie is cleared and the caller treated as anonymous.
func (g *Guard) Pages(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		class := authz.ClassifyPage(r.URL.Path)
		if class == authz.Public {
			next.ServeHTTP(w, r)
			return
		}
		p, err := g.resolve(w, r)
		if err != nil && !apperrors.IsSessionInvalid(err) {
			WriteAppError(w, r, err)
			return
		}
		if d := authz.Decide(class, p, r.URL.RequestURI()); !d.Allowed() {
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(SetPrincipalInContext(r.Context(), p)))
	})
}

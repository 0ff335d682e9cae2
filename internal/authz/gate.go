// Package authz decides whether a request may reach a route given the caller's principal.
package authz

import (
	"net/url"
	"strings"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// Class is the access class of a route.
type Class string

const (
	Public        Class = "public"
	Authenticated Class = "authenticated"
	Admin         Class = "admin"
)

// Redirect targets.
const (
	LoginPath = "/auth/login"
	HomePath  = "/dashboard"
)

// Action is the outcome of a gate decision.
type Action int

const (
	Allow Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Decision is the gate's verdict for one request.
type Decision struct {
	Action   Action
	Location string // empty when Action is Allow
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool { return d.Action == Allow }

// Err renders the decision for JSON routes: SESSION_REQUIRED for anonymous callers,
// FORBIDDEN for authenticated callers without the privilege, nil when allowed.
func (d Decision) Err() error {
	switch d.Action {
	case Allow:
		return nil
	case RedirectLogin:
		return apperrors.SessionRequired("Sign in to continue.")
	default:
		return apperrors.Forbidden("You do not have access to this resource.")
	}
}

// Decide applies class to principal. requestURI is the original path and query,
// carried to the login page as the next parameter.
func Decide(class Class, principal *domainauth.Principal, requestURI string) Decision {
	switch class {
	case Public:
		return Decision{Action: Allow}
	case Admin:
		if principal != nil && principal.IsAdmin {
			return Decision{Action: Allow}
		}
		return Decision{Action: RedirectHome, Location: HomePath}
	default:
		if principal != nil {
			return Decision{Action: Allow}
		}
		return Decision{Action: RedirectLogin, Location: LoginURL(requestURI)}
	}
}

// LoginURL builds the login location that returns to next after sign-in.
func LoginURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(SanitizeNext(next))
}

// SanitizeNext keeps only same-origin absolute paths; anything else becomes "/".
func SanitizeNext(candidate string) string {
	if candidate == "" {
		return "/"
	}
	// Browsers treat backslashes as slashes, so "/\evil.com" is scheme-relative.
	if strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, `/\`) {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}

var (
	publicPrefixes = []string{"/auth/", "/static/", "/courses"} //nolint:gochecknoglobals // read-only
	adminPrefixes  = []string{"/manage", "/admin/"}             //nolint:gochecknoglobals // read-only
)

// ClassifyPage returns the class of a frontend page path.
func ClassifyPage(path string) Class {
	if path == "" || path == "/" {
		return Public
	}
	for _, p := range adminPrefixes {
		if strings.HasPrefix(path, p) {
			return Admin
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return Public
		}
	}
	return Authenticated
}

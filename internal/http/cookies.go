package httpx

import (
	"net"
	"net/http"
	"time"
)

// SessionCookies writes and clears the session cookie.
// The cookie is HttpOnly, SameSite=Lax and scoped to "/". It is Secure unless
// Dev is set and the request arrived over plain HTTP on a loopback host.
type SessionCookies struct {
	Name   string
	Domain string // Optional
	Dev    bool
	Now    func() time.Time // Optional, defaults to time.Now
}

func (c *SessionCookies) name() string {
	if c == nil || c.Name == "" {
		return "session"
	}
	return c.Name
}

func (c *SessionCookies) now() time.Time {
	if c != nil && c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Read returns the raw session artifact, or "" when the cookie is absent.
func (c *SessionCookies) Read(r *http.Request) string {
	ck, err := r.Cookie(c.name())
	if err != nil {
		return ""
	}
	return ck.Value
}

// Set writes token with a Max-Age matching the session's remaining lifetime.
func (c *SessionCookies) Set(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(c.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    token,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		Expires:  expiresAt.UTC(),
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie. Attributes mirror Set so browsers match the original.
func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name(),
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *SessionCookies) secure(r *http.Request) bool {
	if c == nil || !c.Dev || r.TLS != nil {
		return true
	}
	return !isLoopbackHost(r.Host)
}

func isLoopbackHost(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

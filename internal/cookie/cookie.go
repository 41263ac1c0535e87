// Package cookie sets and clears the storefront's cookies with consistent
// security attributes.
package cookie

import (
	"net/http"
	"time"
)

// Config holds cookie configuration.
type Config struct {
	// Domain scopes cookies; empty means host-only.
	Domain string

	// Secure determines whether cookies require HTTPS.
	// Should be true in production, false in development.
	Secure bool
}

func NewConfig(domain string, secure bool) *Config {
	return &Config{
		Domain: domain,
		Secure: secure,
	}
}

// SetSession sets an HttpOnly, SameSite=Lax cookie valid for maxAge.
func (c *Config) SetSession(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSession removes a cookie by setting MaxAge to -1.
func (c *Config) ClearSession(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   c.Domain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get retrieves a cookie value from the request.
// Returns empty string if cookie not found.
func Get(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

const (
	// SessionCookieName holds the login session token.
	SessionCookieName = "stshop_session"

	// CartCookieName holds the anonymous cart token for guests.
	CartCookieName = "stshop_cart"
)

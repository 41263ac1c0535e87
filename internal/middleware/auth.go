package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/stshop/internal/auth"
	"github.com/dukerupert/stshop/internal/cookie"
	"github.com/dukerupert/stshop/internal/domain"
)

// WithCustomer resolves the login session cookie into a customer and stores
// it in the request context. It never rejects a request: an unknown or
// expired session simply leaves the request anonymous and clears the cookie.
func WithCustomer(users domain.UserService, cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			customer, err := users.GetCustomerBySessionToken(r.Context(), token)
			if err != nil {
				if domain.ErrorCode(err) == domain.EINTERNAL {
					GetLogger(r.Context()).Error("failed to resolve session", "error", err)
				} else {
					cookies.ClearSession(w, cookie.SessionCookieName)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := domain.NewContextWithUser(r.Context(), customer.ContextUser())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithCartToken reads the anonymous cart cookie and, for guests without one,
// issues a fresh token. Logged-in customers do not need a token because their
// cart is keyed by customer id, but an existing token is still passed along.
func WithCartToken(cookies *cookie.Config, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.CartCookieName)
			if token == "" && !domain.IsAuthenticated(r.Context()) {
				var err error
				token, err = auth.GenerateToken()
				if err != nil {
					respondInternalError(w, r, err)
					return
				}
				cookies.SetSession(w, cookie.CartCookieName, token, ttl)
			}

			if token != "" {
				r = r.WithContext(domain.NewContextWithCartToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects anonymous browsers to the login page and answers
// JSON clients with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.IsAuthenticated(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		if acceptsJSON(r) {
			respondUnauthorized(w, r)
			return
		}

		returnTo := r.URL.Path
		if r.Method != http.MethodGet {
			// the form body is lost on redirect, so send them back to the page
			returnTo = r.Header.Get("Referer")
			if u, err := url.Parse(returnTo); err != nil || u.Host != r.Host {
				returnTo = "/"
			} else {
				returnTo = u.RequestURI()
			}
		} else if r.URL.RawQuery != "" {
			returnTo += "?" + r.URL.RawQuery
		}

		GetLogger(r.Context(), slog.Default()).Debug("redirecting anonymous request to login", "return_to", returnTo)
		http.Redirect(w, r, "/login?return_to="+url.QueryEscape(returnTo), http.StatusSeeOther)
	})
}

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/dukerupert/stshop/internal/cookie"
)

const (
	// CSRFTokenLength is the length of the CSRF token in bytes
	CSRFTokenLength = 32

	// CSRFCookieName is the name of the CSRF cookie
	CSRFCookieName = "csrf_token"

	// CSRFHeaderName is the header name for CSRF token
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormFieldName is the form field name for CSRF token
	CSRFFormFieldName = "csrf_token"

	csrfContextKey contextKey = "csrf_token"
)

// CSRFConfig configures CSRF protection
type CSRFConfig struct {
	CookieConfig *cookie.Config

	// CookieMaxAge is in seconds. Default: 86400
	CookieMaxAge int

	// SkipPaths bypass validation, matched on a path boundary.
	SkipPaths []string
}

// CSRF implements the double-submit cookie pattern: unsafe methods must echo
// the cookie token in the form field or the X-CSRF-Token header.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	if cfg.CookieConfig == nil {
		panic("csrf: CookieConfig is required")
	}
	if cfg.CookieMaxAge == 0 {
		cfg.CookieMaxAge = 86400
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, skipPath := range cfg.SkipPaths {
				if matchesPathPrefix(r.URL.Path, skipPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token := cookie.Get(r, CSRFCookieName)
			if token == "" {
				var err error
				token, err = generateCSRFToken()
				if err != nil {
					// fail closed rather than fall back to a weak token
					respondInternalError(w, r, err)
					return
				}
				setCSRFCookie(w, token, cfg)
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfContextKey, token))

			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if !validateCSRFToken(token, getSubmittedCSRFToken(r)) {
				respondForbidden(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetCSRFToken returns the token templates embed in their forms.
func GetCSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(csrfContextKey).(string); ok {
		return token
	}
	return ""
}

func generateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// setCSRFCookie is readable by scripts, unlike the session cookies, so
// fetch calls can copy it into the header.
func setCSRFCookie(w http.ResponseWriter, token string, cfg CSRFConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Domain:   cfg.CookieConfig.Domain,
		Path:     "/",
		MaxAge:   cfg.CookieMaxAge,
		Secure:   cfg.CookieConfig.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
}

func getSubmittedCSRFToken(r *http.Request) string {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token
	}
	if err := r.ParseForm(); err == nil {
		return r.PostFormValue(CSRFFormFieldName)
	}
	return ""
}

func validateCSRFToken(cookieToken, submittedToken string) bool {
	if cookieToken == "" || submittedToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submittedToken)) == 1
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet ||
		method == http.MethodHead ||
		method == http.MethodOptions ||
		method == http.MethodTrace
}

// matchesPathPrefix requires a path boundary so "/metrics" does not match
// "/metrics-evil".
func matchesPathPrefix(requestPath, skipPath string) bool {
	if !strings.HasPrefix(requestPath, skipPath) {
		return false
	}
	if strings.HasSuffix(skipPath, "/") || len(requestPath) == len(skipPath) {
		return true
	}
	return requestPath[len(skipPath)] == '/'
}

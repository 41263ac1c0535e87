package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const clientIPContextKey contextKey = "client_ip"

// WithClientIP stores the real client address in the context. Proxy headers
// are trusted, so the app must only be reachable through the reverse proxy.
func WithClientIP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPContextKey, GetClientIP(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIPFromContext returns "" when WithClientIP has not run.
func GetClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPContextKey).(string); ok {
		return ip
	}
	return ""
}

// GetClientIP extracts the client IP from X-Forwarded-For, X-Real-IP and
// finally RemoteAddr.
func GetClientIP(r *http.Request) string {
	if ip := GetClientIPFromContext(r.Context()); ip != "" {
		return ip
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

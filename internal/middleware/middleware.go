// Package middleware provides the storefront's HTTP middleware: identity
// resolution, request logging, metrics, security headers, limits and CSRF.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
)

type contextKey string

// ============================================================================
// MIDDLEWARE ERROR RESPONSE HELPERS
// ============================================================================
//
// These mirror handler.ErrorResponse but stay self-contained because the
// handler package imports middleware for GetLogger.

// respondWithError writes a JSON error for JSON clients and plain text
// otherwise. Internal messages are never exposed.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := errorCodeToHTTPStatus(code)

	logger := GetLogger(r.Context())

	attrs := []any{
		"error", err.Error(),
		"code", code,
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
	}

	if status >= 500 {
		logger.Error("middleware error", attrs...)
	} else {
		logger.Info("middleware error", attrs...)
	}

	if acceptsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    code,
				"message": message,
			},
		})
		return
	}

	http.Error(w, message, status)
}

func respondForbidden(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EFORBIDDEN, "", "You don't have permission to access this resource"))
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
}

func respondInternalError(w http.ResponseWriter, r *http.Request, err error) {
	respondWithError(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests"))
}

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests
	case domain.ENOTIMPL:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// acceptsJSON checks if the client prefers JSON responses.
func acceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// Package handler holds the HTTP plumbing shared by the storefront handlers:
// template rendering, error responses and JSON helpers.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/middleware"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
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

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse logs err and writes it as JSON or plain text depending on
// the client. Internal errors are reported to Sentry and their details are
// never sent to the client.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)
	LogError(r, err, status)

	if AcceptsJSON(r) {
		WriteJSON(w, status, map[string]errorBody{
			"error": {Code: code, Message: domain.ErrorMessage(err)},
		})
		return
	}

	http.Error(w, domain.ErrorMessage(err), status)
}

// ValidationErrorResponse writes the field errors of a ValidationError.
// Other errors fall through to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		ErrorResponse(w, r, err)
		return
	}

	LogError(r, err, http.StatusBadRequest)

	if AcceptsJSON(r) {
		WriteJSON(w, http.StatusBadRequest, map[string]errorBody{
			"error": {Code: domain.EINVALID, Message: domain.ErrorMessage(err), Fields: ve.Fields},
		})
		return
	}

	var b strings.Builder
	b.WriteString(domain.ErrorMessage(err))
	for _, field := range ve.SortedFields() {
		b.WriteString("\n" + field + ": " + ve.Fields[field])
	}
	http.Error(w, b.String(), http.StatusBadRequest)
}

// LogError logs at error level for 5xx and info level otherwise.
func LogError(r *http.Request, err error, status int) {
	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"op", domain.ErrorOp(err),
		"status", status,
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]any{
			"op":   domain.ErrorOp(err),
			"path": r.URL.Path,
		})
		return
	}
	logger.Info("request rejected", attrs...)
}

func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "The requested page was not found"))
}

func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "Authentication required"))
}

func ForbiddenResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.EFORBIDDEN, "", "You don't have permission to access this resource"))
}

// InternalErrorResponse accepts a nil err for failures with no cause to wrap.
func InternalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("unspecified internal error")
	}
	ErrorResponse(w, r, domain.Internal(err, "", "An unexpected error occurred"))
}

// AcceptsJSON reports whether the client asked for, or sent, JSON.
func AcceptsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	return strings.HasSuffix(r.URL.Path, ".json")
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are gone; nothing left but to drop the body
		return
	}
}

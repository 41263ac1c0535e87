// Package storefront holds the customer-facing HTTP handlers. Every handler
// renders HTML by default and JSON when the client sends
// Accept: application/json.
package storefront

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
	"github.com/dukerupert/stshop/internal/middleware"
)

// BaseTemplateData returns common data for all templates
func BaseTemplateData(r *http.Request) map[string]any {
	data := map[string]any{
		"CSRFToken": middleware.GetCSRFToken(r.Context()),
	}

	if user := domain.UserFromContext(r.Context()); user != nil {
		data["User"] = user
	}

	return data
}

// renderError shows the error page for browsers and the JSON error body for
// API clients.
func renderError(w http.ResponseWriter, r *http.Request, renderer *handler.Renderer, err error) {
	if handler.AcceptsJSON(r) {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	status := handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err))
	handler.LogError(r, err, status)

	data := BaseTemplateData(r)
	data["Title"] = http.StatusText(status)
	data["Status"] = status
	data["Message"] = domain.ErrorMessage(err)
	renderer.RenderStatus(w, r, status, "error", data)
}

// redirect answers browsers with 303 and JSON clients with the given body.
func redirect(w http.ResponseWriter, r *http.Request, location string, body any) {
	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, body)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// safeReturnTo accepts only local absolute paths so the login form cannot be
// turned into an open redirect.
func safeReturnTo(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return u.RequestURI()
}

// formValues returns the submitted fields of a urlencoded, multipart or flat
// JSON object body as one set of values.
func formValues(r *http.Request) (url.Values, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, domain.Errorf(domain.EINVALID, "storefront.formValues", "Could not read the submitted form")
		}
		return r.PostForm, nil
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, domain.Errorf(domain.EINVALID, "storefront.formValues", "Request body must be a JSON object")
	}

	values := make(url.Values, len(body))
	for k, v := range body {
		switch v := v.(type) {
		case nil:
		case string:
			values.Set(k, v)
		case float64, bool:
			values.Set(k, fmt.Sprint(v))
		default:
			return nil, domain.Errorf(domain.EINVALID, "storefront.formValues", "Field %q must be a string, number or boolean", k)
		}
	}
	return values, nil
}

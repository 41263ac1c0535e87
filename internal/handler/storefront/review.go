package storefront

import (
	"net/http"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
)

type ReviewHandler struct {
	reviews  domain.ReviewService
	renderer *handler.Renderer
}

func NewReviewHandler(reviews domain.ReviewService, renderer *handler.Renderer) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		renderer: renderer,
	}
}

// Form handles GET /review. ?sent=1 shows the thank-you notice.
func (h *ReviewHandler) Form(w http.ResponseWriter, r *http.Request) {
	form := domain.ReviewParams{}
	if user := domain.UserFromContext(r.Context()); user != nil {
		form.Name = user.Username
		form.Email = user.Email
	}
	h.render(w, r, http.StatusOK, form, nil, r.URL.Query().Get("sent") == "1")
}

// Submit handles POST /review
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	values, err := formValues(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	params := domain.ReviewParams{
		Title: strings.TrimSpace(values.Get("title")),
		Name:  strings.TrimSpace(values.Get("name")),
		Phone: strings.TrimSpace(values.Get("phone")),
		Email: strings.TrimSpace(values.Get("email")),
		Body:  strings.TrimSpace(values.Get("body")),
	}

	review, err := h.reviews.Submit(r.Context(), params)
	if err != nil {
		if domain.IsValidationError(err) && !handler.AcceptsJSON(r) {
			handler.LogError(r, err, http.StatusBadRequest)
			h.render(w, r, http.StatusBadRequest, params, domain.GetValidationFields(err), false)
			return
		}
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusCreated, map[string]any{
			"id":         review.ID,
			"created_at": review.CreatedAt,
		})
		return
	}
	http.Redirect(w, r, "/review?sent=1", http.StatusSeeOther)
}

func (h *ReviewHandler) render(w http.ResponseWriter, r *http.Request, status int, form domain.ReviewParams, fields map[string]string, sent bool) {
	if fields == nil {
		fields = map[string]string{}
	}

	data := BaseTemplateData(r)
	data["Title"] = "Feedback"
	data["Form"] = form
	data["Errors"] = fields
	data["Sent"] = sent
	h.renderer.RenderStatus(w, r, status, "review", data)
}

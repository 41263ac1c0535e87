package storefront

import (
	"net/http"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
)

// PagesHandler serves the informational pages. Both list the shops below
// their sections since pickup happens there.
type PagesHandler struct {
	pages    domain.PageService
	catalog  domain.CatalogService
	renderer *handler.Renderer
}

func NewPagesHandler(pages domain.PageService, catalog domain.CatalogService, renderer *handler.Renderer) *PagesHandler {
	return &PagesHandler{
		pages:    pages,
		catalog:  catalog,
		renderer: renderer,
	}
}

// HowToOrder handles GET /how-to-order
func (h *PagesHandler) HowToOrder(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, domain.PageHowToOrder, "How to order")
}

// HowToPay handles GET /how-to-pay
func (h *PagesHandler) HowToPay(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, domain.PageHowToPay, "How to pay")
}

func (h *PagesHandler) renderPage(w http.ResponseWriter, r *http.Request, page, title string) {
	ctx := r.Context()

	sections, err := h.pages.ListSections(ctx, page)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		type sectionJSON struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		out := make([]sectionJSON, 0, len(sections))
		for _, s := range sections {
			out = append(out, sectionJSON{Title: s.Title, Body: s.Body})
		}
		handler.WriteJSON(w, http.StatusOK, out)
		return
	}

	shops, err := h.catalog.ListShops(ctx)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = title
	data["Sections"] = sections
	data["Shops"] = shops
	h.renderer.RenderHTTP(w, r, "info", data)
}

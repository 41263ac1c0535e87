package storefront

import (
	"net/http"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
)

// CatalogHandler serves the home page, category and product pages and the
// list of shops.
type CatalogHandler struct {
	catalog  domain.CatalogService
	renderer *handler.Renderer
}

func NewCatalogHandler(catalog domain.CatalogService, renderer *handler.Renderer) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// Home handles GET /{$}?page=N
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	productPage, err := h.catalog.ListProducts(ctx, r.URL.Query().Get("page"))
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, map[string]any{
			"products": newProductViews(productPage.Products),
			"page": pageView{
				Number:     productPage.Page.Number,
				TotalPages: productPage.Page.TotalPages,
				PageSize:   productPage.Page.PageSize,
			},
		})
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	data := BaseTemplateData(r)
	data["Categories"] = categories
	data["Products"] = productPage.Products
	data["Page"] = productPage.Page
	h.renderer.RenderHTTP(w, r, "home", data)
}

// Category handles GET /category/{slug}?search=q
func (h *CatalogHandler) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := r.URL.Query().Get("search")

	category, products, err := h.catalog.ListCategoryProducts(ctx, r.PathValue("slug"), search)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, map[string]any{
			"category": categoryView{Name: category.Name, Slug: category.Slug, ImageURL: category.ImageURL},
			"products": newProductViews(products),
		})
		return
	}

	categories, err := h.catalog.ListCategories(ctx)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = category.Name
	data["Categories"] = categories
	data["Category"] = category
	data["Products"] = products
	data["Search"] = search
	h.renderer.RenderHTTP(w, r, "category", data)
}

// Product handles GET /products/{slug}
func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), r.PathValue("slug"))
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, newProductView(*product))
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = product.Title
	data["Product"] = product
	h.renderer.RenderHTTP(w, r, "product", data)
}

// Categories handles GET /categories. It always answers with JSON.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, newCategoryViews(categories))
}

// Shops handles GET /shops
func (h *CatalogHandler) Shops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.catalog.ListShops(r.Context())
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		out := make([]shopView, 0, len(shops))
		for _, s := range shops {
			out = append(out, shopView{Name: s.Name, Address: s.Address, Phone: s.Phone})
		}
		handler.WriteJSON(w, http.StatusOK, out)
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = "Shops"
	data["Shops"] = shops
	h.renderer.RenderHTTP(w, r, "shops", data)
}

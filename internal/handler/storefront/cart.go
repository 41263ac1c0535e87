package storefront

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
)

// CartHandler serves the cart page and its mutations. Every action first
// resolves the caller's open cart, creating it if needed.
type CartHandler struct {
	carts    domain.CartService
	renderer *handler.Renderer
}

func NewCartHandler(carts domain.CartService, renderer *handler.Renderer) *CartHandler {
	return &CartHandler{
		carts:    carts,
		renderer: renderer,
	}
}

// currentCart returns the caller's open cart.
func (h *CartHandler) currentCart(r *http.Request) (*domain.Cart, error) {
	return h.carts.EnsureCart(r.Context(), domain.ResolveOwner(r.Context()))
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	owner := domain.ResolveOwner(ctx)
	if owner.IsZero() {
		h.render(w, r, &domain.CartSummary{})
		return
	}

	cart, err := h.carts.EnsureCart(ctx, owner)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	summary, err := h.carts.GetCartSummary(ctx, cart.ID)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	h.render(w, r, summary)
}

func (h *CartHandler) render(w http.ResponseWriter, r *http.Request, summary *domain.CartSummary) {
	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, newCartView(summary))
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = "Cart"
	data["Summary"] = summary
	h.renderer.RenderHTTP(w, r, "cart", data)
}

// Add handles POST /cart/add/{slug}. The qty field defaults to 1.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	qty, err := quantityField(r, 1)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	cart, err := h.currentCart(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	summary, err := h.carts.AddItem(r.Context(), cart.ID, r.PathValue("slug"), qty, false)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	redirect(w, r, "/cart", newCartView(summary))
}

// Remove handles POST /cart/remove/{slug}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	cart, err := h.currentCart(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	summary, err := h.carts.RemoveItem(r.Context(), cart.ID, r.PathValue("slug"))
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	redirect(w, r, "/cart", newCartView(summary))
}

// ChangeQty handles POST /cart/change-qty/{slug}. A quantity of 0 removes
// the line.
func (h *CartHandler) ChangeQty(w http.ResponseWriter, r *http.Request) {
	qty, err := quantityField(r, -1)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}
	if qty < 0 {
		renderError(w, r, h.renderer, domain.ErrNegativeQuantity.WithOp("storefront.ChangeQty"))
		return
	}

	cart, err := h.currentCart(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	var summary *domain.CartSummary
	if qty == 0 {
		summary, err = h.carts.RemoveItem(r.Context(), cart.ID, r.PathValue("slug"))
	} else {
		summary, err = h.carts.SetQuantity(r.Context(), cart.ID, r.PathValue("slug"), qty)
	}
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	redirect(w, r, "/cart", newCartView(summary))
}

// Clear handles POST /cart/clear
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.currentCart(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	summary, err := h.carts.ClearCart(r.Context(), cart.ID)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	redirect(w, r, "/cart", newCartView(summary))
}

// quantityField reads the "qty" field, returning def when it is absent.
func quantityField(r *http.Request, def int) (int, error) {
	values, err := formValues(r)
	if err != nil {
		return 0, err
	}

	raw := strings.TrimSpace(values.Get("qty"))
	if raw == "" {
		if def < 0 {
			return 0, domain.NewValidationError("storefront.quantityField", "qty", "This field is required")
		}
		return def, nil
	}

	qty, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) || (err == nil && qty > domain.MaxLineQuantity) {
		return 0, domain.NewValidationError("storefront.quantityField", "qty",
			fmt.Sprintf("Quantity must be at most %d", domain.MaxLineQuantity))
	}
	if err != nil {
		return 0, domain.NewValidationError("storefront.quantityField", "qty", "Enter a whole number")
	}
	return qty, nil
}

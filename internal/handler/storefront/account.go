package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
)

// AccountHandler shows the logged-in customer's order history. Routes sit
// behind RequireAuth.
type AccountHandler struct {
	orders   domain.OrderService
	renderer *handler.Renderer
}

func NewAccountHandler(orders domain.OrderService, renderer *handler.Renderer) *AccountHandler {
	return &AccountHandler{
		orders:   orders,
		renderer: renderer,
	}
}

// Orders handles GET /account/orders
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.orders.ListCustomerOrders(ctx, domain.UserIDFromContext(ctx))
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		out := make([]orderView, 0, len(orders))
		for i := range orders {
			out = append(out, newOrderView(&orders[i]))
		}
		handler.WriteJSON(w, http.StatusOK, out)
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = "My orders"
	data["Orders"] = orders
	h.renderer.RenderHTTP(w, r, "orders", data)
}

// Order handles GET /account/orders/{id}. Another customer's order is
// reported as not found.
func (h *AccountHandler) Order(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		renderError(w, r, h.renderer, domain.ErrOrderNotFound)
		return
	}

	order, err := h.orders.GetOrder(ctx, domain.UserIDFromContext(ctx), orderID)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, newOrderView(order))
		return
	}

	data := BaseTemplateData(r)
	data["Title"] = "Order"
	data["Order"] = order
	h.renderer.RenderHTTP(w, r, "order", data)
}

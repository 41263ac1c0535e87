package storefront

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/handler"
	"github.com/dukerupert/stshop/internal/middleware"
)

// dateLayout is the wire format of order dates in forms and JSON.
const dateLayout = "2006-01-02"

// CheckoutHandler turns the logged-in customer's cart into an order.
// Both routes sit behind RequireAuth.
type CheckoutHandler struct {
	carts    domain.CartService
	orders   domain.OrderService
	renderer *handler.Renderer
	now      func() time.Time
}

func NewCheckoutHandler(carts domain.CartService, orders domain.OrderService, renderer *handler.Renderer) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		orders:   orders,
		renderer: renderer,
		now:      time.Now,
	}
}

// Page handles GET /checkout
func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	if handler.AcceptsJSON(r) {
		handler.WriteJSON(w, http.StatusOK, newCartView(summary))
		return
	}

	form := domain.OrderDetails{
		BuyingType: domain.BuyingTypeSelf,
		OrderDate:  h.now(),
	}
	h.render(w, r, http.StatusOK, summary, form, nil, "")
}

// MakeOrder handles POST /checkout/make-order
func (h *CheckoutHandler) MakeOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	values, err := formValues(r)
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	details, parseErr := parseOrderDetails(values)

	cart, err := h.carts.EnsureCart(ctx, domain.ResolveOwner(ctx))
	if err != nil {
		renderError(w, r, h.renderer, err)
		return
	}

	var order *domain.Order
	if parseErr == nil {
		order, err = h.orders.PlaceOrder(ctx, domain.UserIDFromContext(ctx), cart.ID, details)
	} else {
		err = parseErr
	}

	if err != nil {
		if domain.ErrorCode(err) == domain.EINVALID {
			h.rejectOrder(w, r, cart.ID, details, err)
			return
		}
		renderError(w, r, h.renderer, err)
		return
	}

	logger.Info("order placed", "order_id", order.ID, "final_price", order.FinalPrice.StringFixed(2))
	redirect(w, r, "/account/orders/"+order.ID.String(), newOrderView(order))
}

// rejectOrder re-renders the checkout form with the submitted values and
// the reasons they were refused.
func (h *CheckoutHandler) rejectOrder(w http.ResponseWriter, r *http.Request, cartID uuid.UUID, details domain.OrderDetails, err error) {
	if handler.AcceptsJSON(r) {
		handler.ValidationErrorResponse(w, r, err)
		return
	}

	handler.LogError(r, err, http.StatusBadRequest)

	summary, sumErr := h.carts.GetCartSummary(r.Context(), cartID)
	if sumErr != nil {
		renderError(w, r, h.renderer, sumErr)
		return
	}

	fields := domain.GetValidationFields(err)
	message := ""
	if fields == nil {
		message = domain.ErrorMessage(err)
	}
	h.render(w, r, http.StatusBadRequest, summary, details, fields, message)
}

func (h *CheckoutHandler) summary(r *http.Request) (*domain.CartSummary, error) {
	cart, err := h.carts.EnsureCart(r.Context(), domain.ResolveOwner(r.Context()))
	if err != nil {
		return nil, err
	}
	return h.carts.GetCartSummary(r.Context(), cart.ID)
}

func (h *CheckoutHandler) render(w http.ResponseWriter, r *http.Request, status int, summary *domain.CartSummary, form domain.OrderDetails, fields map[string]string, message string) {
	if fields == nil {
		fields = map[string]string{}
	}

	data := BaseTemplateData(r)
	data["Title"] = "Checkout"
	data["Summary"] = summary
	data["Form"] = form
	data["Errors"] = fields
	if message != "" {
		data["Error"] = message
	}
	h.renderer.RenderStatus(w, r, status, "checkout", data)
}

// parseOrderDetails reads the checkout form. A malformed date is reported as
// a field error; everything else is left to the order service to validate.
func parseOrderDetails(values url.Values) (domain.OrderDetails, error) {
	details := domain.OrderDetails{
		FirstName:  values.Get("first_name"),
		LastName:   values.Get("last_name"),
		Phone:      values.Get("phone"),
		Address:    values.Get("address"),
		BuyingType: domain.BuyingType(values.Get("buying_type")),
		Comment:    values.Get("comment"),
	}

	raw := strings.TrimSpace(values.Get("order_date"))
	if raw == "" {
		return details, nil
	}

	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return details, domain.NewValidationError("storefront.parseOrderDetails", "order_date", "Enter a date as YYYY-MM-DD")
	}
	details.OrderDate = date
	return details, nil
}

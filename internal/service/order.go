package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/jobs"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// OrderService freezes carts into orders. Placement is a single transaction:
// the order row, the closed cart, the customer's order history entry and the
// order:placed job either all commit or none do.
type OrderService struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
}

var _ domain.OrderService = (*OrderService)(nil)

func NewOrderService(store repository.Store, logger *slog.Logger) *OrderService {
	return &OrderService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// PlaceOrder validates details, then locks the cart and converts it.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID, cartID uuid.UUID, details domain.OrderDetails) (*domain.Order, error) {
	const op = "order.place"

	details = normalizeOrderDetails(details)
	if err := s.validateDetails(op, details); err != nil {
		return nil, s.checkoutFailed(err)
	}

	var (
		order    repository.Order
		customer repository.Customer
	)

	err := s.store.InTx(ctx, func(q repository.Querier) error {
		cart, err := q.GetCartForUpdate(ctx, cartID)
		if err != nil {
			if repository.IsNoRows(err) {
				return domain.ErrCartNotFound.WithOp(op)
			}
			return domain.Internal(err, op, "failed to lock cart")
		}
		if !toDomainCart(cart).OwnedBy(domain.CustomerOwner(customerID)) {
			return domain.ErrCartForbidden.WithOp(op)
		}
		if cart.InOrder {
			return domain.ErrCartAlreadyConverted.WithOp(op)
		}

		lines, err := q.ListCartLineItems(ctx, cart.ID)
		if err != nil {
			return domain.Internal(err, op, "failed to list cart items")
		}
		totals := domain.Recalculate(toDomainLineItems(lines))
		if totals.TotalProducts == 0 {
			return domain.ErrEmptyCart.WithOp(op)
		}

		customer, err = q.GetCustomerByID(ctx, customerID)
		if err != nil {
			if repository.IsNoRows(err) {
				return domain.ErrCustomerNotFound.WithOp(op)
			}
			return domain.Internal(err, op, "failed to get customer")
		}

		order, err = q.CreateOrder(ctx, repository.CreateOrderParams{
			CustomerID:    customerID,
			CartID:        cart.ID,
			FirstName:     details.FirstName,
			LastName:      details.LastName,
			Phone:         details.Phone,
			Address:       optionalText(details.Address),
			BuyingType:    string(details.BuyingType),
			Comment:       optionalText(details.Comment),
			OrderDate:     details.OrderDate,
			TotalProducts: int32(totals.TotalProducts),
			FinalPrice:    totals.FinalPrice,
		})
		if err != nil {
			if repository.IsUniqueViolation(err, repository.ConstraintOrdersCart) {
				return domain.ErrCartAlreadyConverted.WithOp(op)
			}
			return domain.Internal(err, op, "failed to create order")
		}

		if _, err := q.MarkCartInOrder(ctx, cart.ID); err != nil {
			return domain.Internal(err, op, "failed to close cart")
		}

		if err := q.AddCustomerOrder(ctx, repository.AddCustomerOrderParams{
			CustomerID: customerID,
			OrderID:    order.ID,
		}); err != nil {
			return domain.Internal(err, op, "failed to record customer order")
		}

		if err := jobs.EnqueueOrderPlaced(ctx, q, orderPlacedPayload(order, customer)); err != nil {
			return domain.Internal(err, op, "failed to enqueue order notification")
		}
		return nil
	})
	if err != nil {
		return nil, s.checkoutFailed(err)
	}

	if telemetry.Business != nil {
		telemetry.Business.OrdersPlaced.WithLabelValues(order.BuyingType).Inc()
		telemetry.Business.OrderValue.Observe(order.FinalPrice.InexactFloat64())
		telemetry.Business.OrderItemCount.Observe(float64(order.TotalProducts))
		telemetry.Business.JobsEnqueued.WithLabelValues(jobs.JobTypeOrderPlaced).Inc()
	}
	s.logger.Info("order placed",
		"order_id", order.ID,
		"cart_id", cartID,
		"customer_id", customerID,
		"total_products", order.TotalProducts,
		"final_price", order.FinalPrice.StringFixed(2),
	)

	return toDomainOrder(order), nil
}

func normalizeOrderDetails(d domain.OrderDetails) domain.OrderDetails {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address = strings.TrimSpace(d.Address)
	d.Comment = strings.TrimSpace(d.Comment)
	return d
}

// validateDetails runs the struct rules plus the date check, which needs the
// service clock.
func (s *OrderService) validateDetails(op string, d domain.OrderDetails) error {
	ve := &domain.ValidationError{Op: op}

	if err := validateStruct(op, d); err != nil {
		fields := domain.GetValidationFields(err)
		if fields == nil {
			return err
		}
		for field, msg := range fields {
			ve.Add(field, msg)
		}
	}

	if !d.OrderDate.IsZero() && truncateToDate(d.OrderDate).Before(truncateToDate(s.now())) {
		ve.Add("order_date", "Order date cannot be in the past")
	}

	return ve.Err()
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func orderPlacedPayload(o repository.Order, c repository.Customer) jobs.OrderPlacedPayload {
	return jobs.OrderPlacedPayload{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerEmail: c.Email,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Phone:         o.Phone,
		BuyingType:    o.BuyingType,
		Address:       o.Address.String,
		Comment:       o.Comment.String,
		OrderDate:     o.OrderDate.Format(time.DateOnly),
		TotalProducts: int(o.TotalProducts),
		FinalPrice:    o.FinalPrice,
		PlacedAt:      o.CreatedAt,
	}
}

func (s *OrderService) checkoutFailed(err error) error {
	if telemetry.Business != nil {
		telemetry.Business.CheckoutFailed.WithLabelValues(domain.ErrorCode(err)).Inc()
	}
	return err
}

// GetOrder returns the order when it belongs to customerID. Orders of other
// customers are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*domain.Order, error) {
	const op = "order.get"

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrOrderNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get order")
	}
	if order.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound.WithOp(op)
	}
	return toDomainOrder(order), nil
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	const op = "order.list"

	rows, err := s.store.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, *toDomainOrder(row))
	}
	return orders, nil
}

// AdvanceStatus moves an order forward. The update is conditional on the
// status read here, so a concurrent transition makes this one fail instead
// of silently overwriting it.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uuid.UUID, next domain.OrderStatus) (*domain.Order, error) {
	const op = "order.advance_status"

	if !next.Valid() {
		return nil, domain.Invalid(op, "unknown order status")
	}

	current, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrOrderNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get order")
	}

	if !domain.OrderStatus(current.Status).CanAdvanceTo(next) {
		return nil, domain.ErrInvalidOrderTransition.WithOp(op)
	}

	updated, err := s.store.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:         orderID,
		FromStatus: current.Status,
		ToStatus:   string(next),
	})
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrInvalidOrderTransition.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	if telemetry.Business != nil {
		telemetry.Business.OrderStatusChange.WithLabelValues(string(next)).Inc()
	}
	s.logger.Info("order status changed", "order_id", orderID, "from", current.Status, "to", next)

	return toDomainOrder(updated), nil
}

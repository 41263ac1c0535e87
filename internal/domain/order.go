package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order-related domain errors.
var (
	ErrOrderNotFound          = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart              = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrInvalidOrderTransition = &Error{Code: ECONFLICT, Message: "Order status cannot move in that direction"}
)

// OrderStatus is the fulfilment stage of an order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusReady      OrderStatus = "is_ready"
	OrderStatusCompleted  OrderStatus = "completed"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusNew:        0,
	OrderStatusInProgress: 1,
	OrderStatusReady:      2,
	OrderStatusCompleted:  3,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether next is strictly later than s.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	return ok && to > from
}

// Label is the human readable status name.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusNew:
		return "New order"
	case OrderStatusInProgress:
		return "In progress"
	case OrderStatusReady:
		return "Ready"
	case OrderStatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// BuyingType is how the customer receives the order.
type BuyingType string

const (
	BuyingTypeSelf     BuyingType = "self"
	BuyingTypeDelivery BuyingType = "delivery"
)

func (b BuyingType) Label() string {
	if b == BuyingTypeDelivery {
		return "Delivery"
	}
	return "Pickup"
}

// OrderDetails is the checkout form submitted by the customer.
type OrderDetails struct {
	FirstName  string     `form:"first_name" validate:"required,max=255"`
	LastName   string     `form:"last_name" validate:"required,max=255"`
	Phone      string     `form:"phone" validate:"required,max=20"`
	Address    string     `form:"address" validate:"required_if=BuyingType delivery,max=1024"`
	BuyingType BuyingType `form:"buying_type" validate:"required,oneof=self delivery"`
	Comment    string     `form:"comment" validate:"max=2000"`
	OrderDate  time.Time  `form:"order_date" validate:"required"`
}

// Order is an immutable snapshot of a cart at checkout. Only Status changes
// afterwards.
type Order struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	CartID        uuid.UUID
	FirstName     string
	LastName      string
	Phone         string
	Address       string
	BuyingType    BuyingType
	Status        OrderStatus
	Comment       string
	OrderDate     time.Time
	TotalProducts int
	FinalPrice    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderService converts carts into orders and reads them back.
type OrderService interface {
	// PlaceOrder validates details and atomically freezes the customer's
	// cart into a new order. On any failure nothing is persisted.
	PlaceOrder(ctx context.Context, customerID, cartID uuid.UUID, details OrderDetails) (*Order, error)

	// GetOrder returns an order owned by customerID.
	GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*Order, error)

	// ListCustomerOrders returns the customer's orders, newest first.
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]Order, error)

	// AdvanceStatus moves an order forward along its status progression.
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, next OrderStatus) (*Order, error)
}

package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound         = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound     = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrCartAlreadyConverted = &Error{Code: ECONFLICT, Message: "Cart already converted to order"}
	ErrCartForbidden        = &Error{Code: EFORBIDDEN, Message: "Cart belongs to another customer"}
	ErrNoCartOwner          = &Error{Code: EINVALID, Message: "No cart owner could be resolved"}
	ErrInvalidQuantity      = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrNegativeQuantity     = &Error{Code: EINVALID, Message: "Quantity must not be negative"}
	ErrQuantityTooLarge     = &Error{Code: EINVALID, Message: fmt.Sprintf("Quantity must be at most %d", MaxLineQuantity)}
	ErrCartLimitExceeded    = &Error{Code: EINVALID, Message: "Cart total exceeds the maximum order amount"}
)

// MaxLineQuantity caps the quantity of a single line.
const MaxLineQuantity = 999

// MaxAmount is the largest value a numeric(9,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999.99")



// CartService provides the cart lifecycle: locating or creating the open cart
// of an owner and mutating its line items. Every mutation recalculates and
// persists the cart totals in the same transaction.
type CartService interface {
	// EnsureCart returns the owner's open cart, creating it when missing.
	// Repeated calls without an intervening checkout return the same cart.
	EnsureCart(ctx context.Context, owner Owner) (*Cart, error)

	// GetCartSummary returns the read-only view of a cart.
	GetCartSummary(ctx context.Context, cartID uuid.UUID) (*CartSummary, error)

	// AddItem increments the product's line by quantity, or sets it to
	// quantity when setExact is true (0 removes the line).
	AddItem(ctx context.Context, cartID uuid.UUID, productSlug string, quantity int, setExact bool) (*CartSummary, error)

	// RemoveItem deletes the product's line. Missing lines are ENOTFOUND.
	RemoveItem(ctx context.Context, cartID uuid.UUID, productSlug string) (*CartSummary, error)

	// SetQuantity changes the quantity of an existing line.
	SetQuantity(ctx context.Context, cartID uuid.UUID, productSlug string, quantity int) (*CartSummary, error)

	// ClearCart removes every line.
	ClearCart(ctx context.Context, cartID uuid.UUID) (*CartSummary, error)
}

// Cart is the persisted cart header with its cached aggregates.
type Cart struct {
	ID            uuid.UUID
	OwnerID       uuid.NullUUID
	SessionToken  string
	TotalProducts int
	FinalPrice    decimal.Decimal
	InOrder       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OwnedBy reports whether o owns the cart.
func (c *Cart) OwnedBy(o Owner) bool {
	switch o.Kind {
	case OwnerCustomer:
		return c.OwnerID.Valid && c.OwnerID.UUID == o.CustomerID
	case OwnerAnonymous:
		return !c.OwnerID.Valid && c.SessionToken != "" && c.SessionToken == o.Token
	default:
		return false
	}
}

// LineItem is one product entry in a cart. LineTotal is frozen at the time
// the line was last written.
type LineItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Totals are the cart aggregates derived from its line items.
type Totals struct {
	TotalProducts int
	FinalPrice    decimal.Decimal
}

// Fits reports whether the aggregates fit the cart row columns.
func (t Totals) Fits() bool {
	return t.TotalProducts <= math.MaxInt32 && !t.FinalPrice.GreaterThan(MaxAmount)
}

// LineTotal returns unitPrice * quantity rounded to cents.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Recalculate aggregates the full set of line items. It is always run over
// every current line so the result never drifts from the stored items.
func Recalculate(items []LineItem) Totals {
	totals := Totals{FinalPrice: decimal.Zero}
	for _, item := range items {
		totals.TotalProducts += item.Quantity
		totals.FinalPrice = totals.FinalPrice.Add(item.LineTotal)
	}
	totals.FinalPrice = totals.FinalPrice.Round(2)
	return totals
}

// CartSummary aggregates cart information with items and totals.
type CartSummary struct {
	Cart          Cart
	Items         []CartItem
	TotalProducts int
	FinalPrice    decimal.Decimal
}

// IsEmpty reports whether the summary has no items.
func (s *CartSummary) IsEmpty() bool {
	return len(s.Items) == 0
}

// CartItem is a line item joined with its product for display.
type CartItem struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ProductTitle string
	ProductSlug  string
	ImageURL     string
	Quantity     int
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
}

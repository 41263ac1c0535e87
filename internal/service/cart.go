package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/telemetry"
)

// CartService owns the cart lifecycle. Every line item mutation locks the
// cart row, rewrites the affected line, recalculates the totals from all
// lines and persists them before the transaction commits.
type CartService struct {
	store  repository.Store
	logger *slog.Logger
}

var _ domain.CartService = (*CartService)(nil)

func NewCartService(store repository.Store, logger *slog.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: logger,
	}
}

// EnsureCart returns the owner's open cart, creating one when none exists.
// Losing a creation race to a concurrent request is not an error: the
// partial unique index rejects the second insert and the winner's cart is
// fetched instead.
func (s *CartService) EnsureCart(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	const op = "cart.ensure"

	if owner.IsZero() {
		return nil, domain.ErrNoCartOwner.WithOp(op)
	}

	cart, err := findOpenCart(ctx, s.store, owner)
	if err == nil {
		return toDomainCart(cart), nil
	}
	if !repository.IsNoRows(err) {
		return nil, domain.Internal(err, op, "failed to look up open cart")
	}

	params := repository.CreateCartParams{}
	if owner.Kind == domain.OwnerCustomer {
		params.OwnerID = uuid.NullUUID{UUID: owner.CustomerID, Valid: true}
	} else {
		params.SessionToken = pgtype.Text{String: owner.Token, Valid: true}
	}

	created, err := s.store.CreateCart(ctx, params)
	if err != nil {
		if !repository.IsUniqueViolation(err, "") {
			return nil, domain.Internal(err, op, "failed to create cart")
		}

		s.logger.Debug("concurrent cart creation, re-fetching", "owner", owner.String())
		if telemetry.Business != nil {
			telemetry.Business.CartRecoveredOnRace.WithLabelValues(ownerKindLabel(owner)).Inc()
		}

		cart, err := findOpenCart(ctx, s.store, owner)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to re-fetch cart after concurrent create")
		}
		return toDomainCart(cart), nil
	}

	if telemetry.Business != nil {
		telemetry.Business.CartCreated.WithLabelValues(ownerKindLabel(owner)).Inc()
	}
	s.logger.Debug("cart created", "cart_id", created.ID, "owner", owner.String())

	return toDomainCart(created), nil
}

func findOpenCart(ctx context.Context, q repository.Querier, owner domain.Owner) (repository.Cart, error) {
	if owner.Kind == domain.OwnerCustomer {
		return q.GetOpenCartByOwner(ctx, owner.CustomerID)
	}
	return q.GetOpenCartBySessionToken(ctx, owner.Token)
}

func ownerKindLabel(owner domain.Owner) string {
	if owner.Kind == domain.OwnerCustomer {
		return "customer"
	}
	return "anonymous"
}

// GetCartSummary returns the cart with its items. Line totals are projected
// from the stored unit price, never from the current catalog price.
func (s *CartService) GetCartSummary(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	const op = "cart.summary"

	cart, err := s.store.GetCartByID(ctx, cartID)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, domain.ErrCartNotFound.WithOp(op)
		}
		return nil, domain.Internal(err, op, "failed to get cart")
	}

	return buildSummary(ctx, s.store, op, cart)
}

func buildSummary(ctx context.Context, q repository.Querier, op string, cart repository.Cart) (*domain.CartSummary, error) {
	rows, err := q.ListCartItemsWithProducts(ctx, cart.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list cart items")
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CartItem{
			ID:           row.ID,
			ProductID:    row.ProductID,
			ProductTitle: row.ProductTitle,
			ProductSlug:  row.ProductSlug,
			ImageURL:     row.ImageUrl.String,
			Quantity:     int(row.Quantity),
			UnitPrice:    row.UnitPrice,
			LineTotal:    domain.LineTotal(row.UnitPrice, int(row.Quantity)),
		})
	}

	return &domain.CartSummary{
		Cart:          *toDomainCart(cart),
		Items:         items,
		TotalProducts: int(cart.TotalProducts),
		FinalPrice:    cart.FinalPrice,
	}, nil
}

// AddItem adds a product to the cart. By default quantity is added to any
// existing line; with setExact the line is set to quantity and 0 removes it.
func (s *CartService) AddItem(ctx context.Context, cartID uuid.UUID, productSlug string, quantity int, setExact bool) (*domain.CartSummary, error) {
	const op = "cart.add_item"

	if setExact && quantity < 0 {
		return nil, s.fail(op, domain.ErrNegativeQuantity.WithOp(op))
	}
	if !setExact && quantity < 1 {
		return nil, s.fail(op, domain.ErrInvalidQuantity.WithOp(op))
	}
	if quantity > domain.MaxLineQuantity {
		return nil, s.fail(op, domain.ErrQuantityTooLarge.WithOp(op))
	}

	summary, err := s.mutate(ctx, op, cartID, func(q repository.Querier, cart repository.Cart) error {
		product, err := productBySlug(ctx, q, op, productSlug)
		if err != nil {
			return err
		}

		line, found, err := lineItem(ctx, q, op, cart.ID, product.ID)
		if err != nil {
			return err
		}

		next := quantity
		if found && !setExact {
			next = int(line.Quantity) + quantity
		}
		if next > domain.MaxLineQuantity {
			return domain.ErrQuantityTooLarge.WithOp(op)
		}

		if next == 0 {
			if !found {
				return nil
			}
			if err := q.DeleteCartLineItem(ctx, line.ID); err != nil {
				return domain.Internal(err, op, "failed to remove cart item")
			}
			return nil
		}

		return saveLine(ctx, q, op, cart, product, line, found, next)
	})
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		mode := "increment"
		if setExact {
			mode = "set"
		}
		telemetry.Business.CartItemsAdded.WithLabelValues(mode).Inc()
	}
	return summary, nil
}

// RemoveItem deletes the product's line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID uuid.UUID, productSlug string) (*domain.CartSummary, error) {
	const op = "cart.remove_item"

	summary, err := s.mutate(ctx, op, cartID, func(q repository.Querier, cart repository.Cart) error {
		product, err := productBySlug(ctx, q, op, productSlug)
		if err != nil {
			return err
		}

		line, found, err := lineItem(ctx, q, op, cart.ID, product.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCartItemNotFound.WithOp(op)
		}

		if err := q.DeleteCartLineItem(ctx, line.ID); err != nil {
			return domain.Internal(err, op, "failed to remove cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartItemsRemoved.Inc()
	}
	return summary, nil
}

// SetQuantity changes the quantity of a line that is already in the cart.
func (s *CartService) SetQuantity(ctx context.Context, cartID uuid.UUID, productSlug string, quantity int) (*domain.CartSummary, error) {
	const op = "cart.set_quantity"

	if quantity < 1 {
		return nil, s.fail(op, domain.ErrInvalidQuantity.WithOp(op))
	}
	if quantity > domain.MaxLineQuantity {
		return nil, s.fail(op, domain.ErrQuantityTooLarge.WithOp(op))
	}

	summary, err := s.mutate(ctx, op, cartID, func(q repository.Querier, cart repository.Cart) error {
		product, err := productBySlug(ctx, q, op, productSlug)
		if err != nil {
			return err
		}

		line, found, err := lineItem(ctx, q, op, cart.ID, product.ID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCartItemNotFound.WithOp(op)
		}

		return saveLine(ctx, q, op, cart, product, line, true, quantity)
	})
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartQuantityChanged.Inc()
	}
	return summary, nil
}

// ClearCart removes every line from the cart.
func (s *CartService) ClearCart(ctx context.Context, cartID uuid.UUID) (*domain.CartSummary, error) {
	const op = "cart.clear"

	summary, err := s.mutate(ctx, op, cartID, func(q repository.Querier, cart repository.Cart) error {
		if err := q.DeleteCartLineItems(ctx, cart.ID); err != nil {
			return domain.Internal(err, op, "failed to clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if telemetry.Business != nil {
		telemetry.Business.CartCleared.Inc()
	}
	return summary, nil
}

// mutate runs fn inside a transaction holding the cart row lock, then
// recalculates and stores the cart totals. Closed carts are rejected before
// fn runs.
func (s *CartService) mutate(ctx context.Context, op string, cartID uuid.UUID, fn func(q repository.Querier, cart repository.Cart) error) (*domain.CartSummary, error) {
	var summary *domain.CartSummary

	err := s.store.InTx(ctx, func(q repository.Querier) error {
		cart, err := q.GetCartForUpdate(ctx, cartID)
		if err != nil {
			if repository.IsNoRows(err) {
				return domain.ErrCartNotFound.WithOp(op)
			}
			return domain.Internal(err, op, "failed to lock cart")
		}
		if cart.InOrder {
			return domain.ErrCartAlreadyConverted.WithOp(op)
		}

		if err := fn(q, cart); err != nil {
			return err
		}

		updated, err := recalculateCart(ctx, q, op, cart.ID)
		if err != nil {
			return err
		}

		summary, err = buildSummary(ctx, q, op, updated)
		return err
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	if telemetry.Business != nil {
		telemetry.Business.CartValue.Observe(summary.FinalPrice.InexactFloat64())
	}
	s.logger.Debug("cart updated",
		"op", op,
		"cart_id", cartID,
		"total_products", summary.TotalProducts,
		"final_price", summary.FinalPrice.StringFixed(2),
	)

	return summary, nil
}

// recalculateCart aggregates every current line of the cart and writes the
// totals onto the cart row.
func recalculateCart(ctx context.Context, q repository.Querier, op string, cartID uuid.UUID) (repository.Cart, error) {
	rows, err := q.ListCartLineItems(ctx, cartID)
	if err != nil {
		return repository.Cart{}, domain.Internal(err, op, "failed to list cart items")
	}

	totals := domain.Recalculate(toDomainLineItems(rows))
	if !totals.Fits() {
		return repository.Cart{}, domain.ErrCartLimitExceeded.WithOp(op)
	}

	cart, err := q.UpdateCartTotals(ctx, repository.UpdateCartTotalsParams{
		ID:            cartID,
		TotalProducts: int32(totals.TotalProducts),
		FinalPrice:    totals.FinalPrice,
	})
	if err != nil {
		return repository.Cart{}, domain.Internal(err, op, "failed to save cart totals")
	}
	return cart, nil
}

// saveLine writes a line at quantity using the product's current price.
func saveLine(ctx context.Context, q repository.Querier, op string, cart repository.Cart, product repository.Product, line repository.CartLineItem, exists bool, quantity int) error {
	lineTotal := domain.LineTotal(product.Price, quantity)
	if lineTotal.GreaterThan(domain.MaxAmount) {
		return domain.ErrCartLimitExceeded.WithOp(op)
	}

	if exists {
		_, err := q.UpdateCartLineItem(ctx, repository.UpdateCartLineItemParams{
			ID:        line.ID,
			Quantity:  int32(quantity),
			UnitPrice: product.Price,
			LineTotal: lineTotal,
		})
		if err != nil {
			return domain.Internal(err, op, "failed to update cart item")
		}
		return nil
	}

	_, err := q.CreateCartLineItem(ctx, repository.CreateCartLineItemParams{
		CartID:     cart.ID,
		CustomerID: cart.OwnerID,
		ProductID:  product.ID,
		Quantity:   int32(quantity),
		UnitPrice:  product.Price,
		LineTotal:  lineTotal,
	})
	if err != nil {
		return domain.Internal(err, op, "failed to add cart item")
	}
	return nil
}

func productBySlug(ctx context.Context, q repository.Querier, op, slug string) (repository.Product, error) {
	product, err := q.GetProductBySlug(ctx, slug)
	if err != nil {
		if repository.IsNoRows(err) {
			return repository.Product{}, domain.ErrProductNotFound.WithOp(op)
		}
		return repository.Product{}, domain.Internal(err, op, "failed to get product")
	}
	return product, nil
}

func lineItem(ctx context.Context, q repository.Querier, op string, cartID, productID uuid.UUID) (repository.CartLineItem, bool, error) {
	line, err := q.GetCartLineItem(ctx, repository.GetCartLineItemParams{
		CartID:    cartID,
		ProductID: productID,
	})
	if err != nil {
		if repository.IsNoRows(err) {
			return repository.CartLineItem{}, false, nil
		}
		return repository.CartLineItem{}, false, domain.Internal(err, op, "failed to get cart item")
	}
	return line, true, nil
}

// fail records a rejected or failed mutation and returns err unchanged.
func (s *CartService) fail(op string, err error) error {
	if telemetry.Business != nil {
		telemetry.Business.CartMutationFailures.WithLabelValues(op, domain.ErrorCode(err)).Inc()
	}
	return err
}

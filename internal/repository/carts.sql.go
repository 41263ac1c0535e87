package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const cartColumns = `id, owner_id, session_token, total_products, final_price, in_order, created_at, updated_at`

func scanCart(row scanner) (Cart, error) {
	var i Cart
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.SessionToken,
		&i.TotalProducts,
		&i.FinalPrice,
		&i.InOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getOpenCartByOwner = `-- name: GetOpenCartByOwner :one
SELECT ` + cartColumns + ` FROM carts WHERE owner_id = $1 AND NOT in_order`

func (q *Queries) GetOpenCartByOwner(ctx context.Context, ownerID uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getOpenCartByOwner, ownerID))
}

const getOpenCartBySessionToken = `-- name: GetOpenCartBySessionToken :one
SELECT ` + cartColumns + ` FROM carts WHERE session_token = $1 AND NOT in_order`

func (q *Queries) GetOpenCartBySessionToken(ctx context.Context, sessionToken string) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getOpenCartBySessionToken, sessionToken))
}

const createCart = `-- name: CreateCart :one
INSERT INTO carts (owner_id, session_token)
VALUES ($1, $2)
RETURNING ` + cartColumns

type CreateCartParams struct {
	OwnerID      uuid.NullUUID
	SessionToken pgtype.Text
}

func (q *Queries) CreateCart(ctx context.Context, arg CreateCartParams) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, createCart, arg.OwnerID, arg.SessionToken))
}

const getCartByID = `-- name: GetCartByID :one
SELECT ` + cartColumns + ` FROM carts WHERE id = $1`

func (q *Queries) GetCartByID(ctx context.Context, id uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartByID, id))
}

const getCartForUpdate = `-- name: GetCartForUpdate :one
SELECT ` + cartColumns + ` FROM carts WHERE id = $1 FOR UPDATE`

// GetCartForUpdate locks the cart row until the surrounding transaction ends.
func (q *Queries) GetCartForUpdate(ctx context.Context, id uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, getCartForUpdate, id))
}

const updateCartTotals = `-- name: UpdateCartTotals :one
UPDATE carts
SET total_products = $2, final_price = $3, updated_at = now()
WHERE id = $1
RETURNING ` + cartColumns

type UpdateCartTotalsParams struct {
	ID            uuid.UUID
	TotalProducts int32
	FinalPrice    decimal.Decimal
}

func (q *Queries) UpdateCartTotals(ctx context.Context, arg UpdateCartTotalsParams) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, updateCartTotals, arg.ID, arg.TotalProducts, arg.FinalPrice))
}

const markCartInOrder = `-- name: MarkCartInOrder :one
UPDATE carts SET in_order = true, updated_at = now()
WHERE id = $1 AND NOT in_order
RETURNING ` + cartColumns

func (q *Queries) MarkCartInOrder(ctx context.Context, id uuid.UUID) (Cart, error) {
	return scanCart(q.db.QueryRow(ctx, markCartInOrder, id))
}

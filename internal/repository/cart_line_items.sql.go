package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const lineItemColumns = `id, cart_id, customer_id, product_id, quantity, unit_price, line_total, created_at, updated_at`

func scanCartLineItem(row scanner) (CartLineItem, error) {
	var i CartLineItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.CustomerID,
		&i.ProductID,
		&i.Quantity,
		&i.UnitPrice,
		&i.LineTotal,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCartLineItems = `-- name: ListCartLineItems :many
SELECT ` + lineItemColumns + ` FROM cart_line_items WHERE cart_id = $1 ORDER BY created_at, id`

func (q *Queries) ListCartLineItems(ctx context.Context, cartID uuid.UUID) ([]CartLineItem, error) {
	rows, err := q.db.Query(ctx, listCartLineItems, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CartLineItem
	for rows.Next() {
		i, err := scanCartLineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listCartItemsWithProducts = `-- name: ListCartItemsWithProducts :many
SELECT li.id, li.product_id, p.title, p.slug, p.image_url, li.quantity, li.unit_price
FROM cart_line_items li
JOIN products p ON p.id = li.product_id
WHERE li.cart_id = $1
ORDER BY li.created_at, li.id`

type ListCartItemsWithProductsRow struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	ProductTitle string
	ProductSlug  string
	ImageUrl     pgtype.Text
	Quantity     int32
	UnitPrice    decimal.Decimal
}

func (q *Queries) ListCartItemsWithProducts(ctx context.Context, cartID uuid.UUID) ([]ListCartItemsWithProductsRow, error) {
	rows, err := q.db.Query(ctx, listCartItemsWithProducts, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListCartItemsWithProductsRow
	for rows.Next() {
		var i ListCartItemsWithProductsRow
		if err := rows.Scan(
			&i.ID,
			&i.ProductID,
			&i.ProductTitle,
			&i.ProductSlug,
			&i.ImageUrl,
			&i.Quantity,
			&i.UnitPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getCartLineItem = `-- name: GetCartLineItem :one
SELECT ` + lineItemColumns + ` FROM cart_line_items WHERE cart_id = $1 AND product_id = $2`

type GetCartLineItemParams struct {
	CartID    uuid.UUID
	ProductID uuid.UUID
}

func (q *Queries) GetCartLineItem(ctx context.Context, arg GetCartLineItemParams) (CartLineItem, error) {
	return scanCartLineItem(q.db.QueryRow(ctx, getCartLineItem, arg.CartID, arg.ProductID))
}

const createCartLineItem = `-- name: CreateCartLineItem :one
INSERT INTO cart_line_items (cart_id, customer_id, product_id, quantity, unit_price, line_total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + lineItemColumns

type CreateCartLineItemParams struct {
	CartID     uuid.UUID
	CustomerID uuid.NullUUID
	ProductID  uuid.UUID
	Quantity   int32
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

func (q *Queries) CreateCartLineItem(ctx context.Context, arg CreateCartLineItemParams) (CartLineItem, error) {
	row := q.db.QueryRow(ctx, createCartLineItem,
		arg.CartID,
		arg.CustomerID,
		arg.ProductID,
		arg.Quantity,
		arg.UnitPrice,
		arg.LineTotal,
	)
	return scanCartLineItem(row)
}

const updateCartLineItem = `-- name: UpdateCartLineItem :one
UPDATE cart_line_items
SET quantity = $2, unit_price = $3, line_total = $4, updated_at = now()
WHERE id = $1
RETURNING ` + lineItemColumns

type UpdateCartLineItemParams struct {
	ID        uuid.UUID
	Quantity  int32
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func (q *Queries) UpdateCartLineItem(ctx context.Context, arg UpdateCartLineItemParams) (CartLineItem, error) {
	return scanCartLineItem(q.db.QueryRow(ctx, updateCartLineItem, arg.ID, arg.Quantity, arg.UnitPrice, arg.LineTotal))
}

const deleteCartLineItem = `-- name: DeleteCartLineItem :exec
DELETE FROM cart_line_items WHERE id = $1`

func (q *Queries) DeleteCartLineItem(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartLineItem, id)
	return err
}

const deleteCartLineItems = `-- name: DeleteCartLineItems :exec
DELETE FROM cart_line_items WHERE cart_id = $1`

func (q *Queries) DeleteCartLineItems(ctx context.Context, cartID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteCartLineItems, cartID)
	return err
}

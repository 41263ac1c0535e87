package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, customer_id, cart_id, first_name, last_name, phone, address, buying_type, status, comment, order_date, total_products, final_price, created_at, updated_at`

func scanOrder(row scanner) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.CartID,
		&i.FirstName,
		&i.LastName,
		&i.Phone,
		&i.Address,
		&i.BuyingType,
		&i.Status,
		&i.Comment,
		&i.OrderDate,
		&i.TotalProducts,
		&i.FinalPrice,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders (
    customer_id, cart_id, first_name, last_name, phone, address,
    buying_type, status, comment, order_date, total_products, final_price
) VALUES ($1, $2, $3, $4, $5, $6, $7, 'new', $8, $9, $10, $11)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	CustomerID    uuid.UUID
	CartID        uuid.UUID
	FirstName     string
	LastName      string
	Phone         string
	Address       pgtype.Text
	BuyingType    string
	Comment       pgtype.Text
	OrderDate     time.Time
	TotalProducts int32
	FinalPrice    decimal.Decimal
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.CustomerID,
		arg.CartID,
		arg.FirstName,
		arg.LastName,
		arg.Phone,
		arg.Address,
		arg.BuyingType,
		arg.Comment,
		pgtype.Date{Time: arg.OrderDate, Valid: true},
		arg.TotalProducts,
		arg.FinalPrice,
	)
	return scanOrder(row)
}

const addCustomerOrder = `-- name: AddCustomerOrder :exec
INSERT INTO customer_orders (customer_id, order_id) VALUES ($1, $2)`

type AddCustomerOrderParams struct {
	CustomerID uuid.UUID
	OrderID    uuid.UUID
}

func (q *Queries) AddCustomerOrder(ctx context.Context, arg AddCustomerOrderParams) error {
	_, err := q.db.Exec(ctx, addCustomerOrder, arg.CustomerID, arg.OrderID)
	return err
}

const getOrderByID = `-- name: GetOrderByID :one
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrderByID(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

const listOrdersByCustomer = `-- name: ListOrdersByCustomer :many
SELECT o.id, o.customer_id, o.cart_id, o.first_name, o.last_name, o.phone, o.address,
       o.buying_type, o.status, o.comment, o.order_date, o.total_products, o.final_price,
       o.created_at, o.updated_at
FROM orders o
JOIN customer_orders co ON co.order_id = o.id
WHERE co.customer_id = $1
ORDER BY o.created_at DESC`

func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		i, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Only applies when the order is still in FromStatus, so two concurrent
// transitions cannot both succeed.
const updateOrderStatus = `-- name: UpdateOrderStatus :one
UPDATE orders SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns

type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	FromStatus string
	ToStatus   string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.FromStatus, arg.ToStatus))
}

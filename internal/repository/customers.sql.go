package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, username, email, password_hash, first_name, last_name, phone, address, created_at, updated_at`

func scanCustomer(row scanner) (Customer, error) {
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.FirstName,
		&i.LastName,
		&i.Phone,
		&i.Address,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCustomer = `-- name: CreateCustomer :one
INSERT INTO customers (username, email, password_hash, first_name, last_name, phone, address)
VALUES ($1, lower($2), $3, $4, $5, $6, $7)
RETURNING ` + customerColumns

type CreateCustomerParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        pgtype.Text
	Address      pgtype.Text
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRow(ctx, createCustomer,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.FirstName,
		arg.LastName,
		arg.Phone,
		arg.Address,
	)
	return scanCustomer(row)
}

const getCustomerByID = `-- name: GetCustomerByID :one
SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

func (q *Queries) GetCustomerByID(ctx context.Context, id uuid.UUID) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByID, id))
}

const getCustomerByUsername = `-- name: GetCustomerByUsername :one
SELECT ` + customerColumns + ` FROM customers WHERE username = $1`

func (q *Queries) GetCustomerByUsername(ctx context.Context, username string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByUsername, username))
}

const getCustomerByEmail = `-- name: GetCustomerByEmail :one
SELECT ` + customerColumns + ` FROM customers WHERE email = lower($1)`

func (q *Queries) GetCustomerByEmail(ctx context.Context, email string) (Customer, error) {
	return scanCustomer(q.db.QueryRow(ctx, getCustomerByEmail, email))
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is a Querier that can also run a function inside one transaction.
type Store interface {
	Querier

	// InTx runs fn against a transaction-bound Querier. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(Querier) error) error
}

// PoolStore is the pgxpool-backed Store.
type PoolStore struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PoolStore {
	return &PoolStore{
		Queries: New(pool),
		pool:    pool,
	}
}

func (s *PoolStore) InTx(ctx context.Context, fn func(Querier) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(s.Queries.WithTx(tx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsNoRows reports whether err means a query matched no row.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraint is non-empty it must also match the violated constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// Constraint names the services react to.
const (
	ConstraintOpenOwnerCart     = "carts_open_owner_key"
	ConstraintOpenSessionCart   = "carts_open_session_key"
	ConstraintCustomersUsername = "customers_username_key"
	ConstraintCustomersEmail    = "customers_email_key"
	ConstraintOrdersCart        = "orders_cart_key"
)

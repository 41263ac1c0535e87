//go:build integration

package repository_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dukerupert/stshop/internal"
	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/service"
)

// startPostgres runs a throwaway database with every migration applied.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("stshop"),
		postgres.WithUsername("stshop"),
		postgres.WithPassword("stshop"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, internal.RunMigrations(sqlDB))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func createCustomer(t *testing.T, q repository.Querier, username string) repository.Customer {
	t.Helper()
	c, err := q.CreateCustomer(context.Background(), repository.CreateCustomerParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "Customer",
		Phone:        pgtype.Text{String: "+10000000000", Valid: true},
	})
	require.NoError(t, err)
	return c
}

func TestIntegration_OneOpenCartPerOwner(t *testing.T) {
	pool := startPostgres(t)
	store := repository.NewStore(pool)
	ctx := context.Background()

	customer := createCustomer(t, store, "alice")
	owner := uuid.NullUUID{UUID: customer.ID, Valid: true}

	_, err := store.CreateCart(ctx, repository.CreateCartParams{OwnerID: owner})
	require.NoError(t, err)

	_, err = store.CreateCart(ctx, repository.CreateCartParams{OwnerID: owner})
	require.Error(t, err)
	assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintOpenOwnerCart))

	token := pgtype.Text{String: "guest-token", Valid: true}
	_, err = store.CreateCart(ctx, repository.CreateCartParams{SessionToken: token})
	require.NoError(t, err)
	_, err = store.CreateCart(ctx, repository.CreateCartParams{SessionToken: token})
	assert.True(t, repository.IsUniqueViolation(err, repository.ConstraintOpenSessionCart))
}

func TestIntegration_Checkout(t *testing.T) {
	pool := startPostgres(t)
	store := repository.NewStore(pool)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	category, err := store.CreateCategory(ctx, repository.CreateCategoryParams{Name: "Tea", Slug: "tea"})
	require.NoError(t, err)
	_, err = store.CreateProduct(ctx, repository.CreateProductParams{
		CategoryID: category.ID,
		Title:      "Sencha",
		Slug:       "sencha",
		Price:      decimal.RequireFromString("4.50"),
	})
	require.NoError(t, err)
	customer := createCustomer(t, store, "bob")

	carts := service.NewCartService(store, logger)
	orders := service.NewOrderService(store, logger)
	owner := domain.CustomerOwner(customer.ID)

	cart, err := carts.EnsureCart(ctx, owner)
	require.NoError(t, err)

	summary, err := carts.AddItem(ctx, cart.ID, "sencha", 2, false)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalProducts)
	assert.True(t, decimal.RequireFromString("9.00").Equal(summary.FinalPrice))

	order, err := orders.PlaceOrder(ctx, customer.ID, cart.ID, domain.OrderDetails{
		FirstName:  "Bob",
		LastName:   "Brown",
		Phone:      "+10000000001",
		BuyingType: domain.BuyingTypeSelf,
		OrderDate:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, order.TotalProducts)
	assert.Equal(t, domain.OrderStatusNew, order.Status)

	// the converted cart is closed, so the owner gets a fresh one
	next, err := carts.EnsureCart(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, next.ID)

	_, err = orders.PlaceOrder(ctx, customer.ID, cart.ID, domain.OrderDetails{
		FirstName:  "Bob",
		LastName:   "Brown",
		Phone:      "+10000000001",
		BuyingType: domain.BuyingTypeSelf,
		OrderDate:  time.Now().Add(24 * time.Hour),
	})
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	job, err := store.ClaimNextJob(ctx, repository.ClaimNextJobParams{WorkerID: "test"})
	require.NoError(t, err)
	assert.Equal(t, "order:placed", job.JobType)
}

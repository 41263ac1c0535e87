// Command shopctl runs maintenance tasks against the shop database:
//
//	shopctl migrate
//	shopctl seed [-file catalog.json]
//	shopctl advance-order -id <order id> -status in_progress|is_ready|completed
//	shopctl set-price -product <slug> -price 12.50
//	shopctl set-image -product <slug> -file image.jpg
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal"
	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/seed"
	"github.com/dukerupert/stshop/internal/service"
	"github.com/dukerupert/stshop/internal/storage"
)

var errUsage = errors.New("usage: shopctl migrate | seed [-file path] | advance-order -id <uuid> -status <status> | set-price -product <slug> -price <amount> | set-image -product <slug> -file <path>")

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	switch args[0] {
	case "migrate":
		return migrate(cfg.DatabaseUrl)

	case "seed":
		fs := flag.NewFlagSet("seed", flag.ContinueOnError)
		file := fs.String("file", "", "seed document (default: bundled sample data)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return runSeed(ctx, cfg.DatabaseUrl, *file, stdout)

	case "advance-order":
		fs := flag.NewFlagSet("advance-order", flag.ContinueOnError)
		id := fs.String("id", "", "order id")
		status := fs.String("status", "", "next status")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		orderID, err := uuid.Parse(*id)
		if err != nil {
			return fmt.Errorf("invalid order id %q: %w", *id, err)
		}
		return advanceOrder(ctx, cfg.DatabaseUrl, logger, orderID, domain.OrderStatus(*status), stdout)

	case "set-price":
		fs := flag.NewFlagSet("set-price", flag.ContinueOnError)
		slug := fs.String("product", "", "product slug")
		raw := fs.String("price", "", "new price")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		price, err := decimal.NewFromString(*raw)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", *raw, err)
		}
		return withProductAdmin(ctx, cfg, logger, func(svc *service.ProductAdminService) error {
			product, err := svc.SetPrice(ctx, *slug, price)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s now costs %s\n", product.Slug, product.Price.StringFixed(2))
			return nil
		})

	case "set-image":
		fs := flag.NewFlagSet("set-image", flag.ContinueOnError)
		slug := fs.String("product", "", "product slug")
		file := fs.String("file", "", "image file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		f, err := os.Open(*file)
		if err != nil {
			return err
		}
		defer f.Close()
		return withProductAdmin(ctx, cfg, logger, func(svc *service.ProductAdminService) error {
			product, err := svc.SetImage(ctx, *slug, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "%s image is %s\n", product.Slug, product.ImageURL)
			return nil
		})

	default:
		return errUsage
	}
}

func withProductAdmin(ctx context.Context, cfg *internal.Config, logger *slog.Logger, fn func(*service.ProductAdminService) error) error {
	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	return fn(service.NewProductAdminService(repository.NewStore(pool), images, logger))
}

func migrate(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()
	return internal.RunMigrations(db)
}

func runSeed(ctx context.Context, databaseURL, file string, stdout io.Writer) error {
	data, err := loadSeed(file)
	if err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	var res seed.Result
	err = repository.NewStore(pool).InTx(ctx, func(q repository.Querier) error {
		res, err = seed.Load(ctx, q, data)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "seeded %d categories, %d products, %d shops, %d sections\n",
		res.Categories, res.Products, res.Shops, res.Sections)
	return nil
}

func loadSeed(file string) (seed.Data, error) {
	if file == "" {
		return seed.Sample()
	}
	f, err := os.Open(file)
	if err != nil {
		return seed.Data{}, err
	}
	defer f.Close()
	return seed.Decode(f)
}

func advanceOrder(ctx context.Context, databaseURL string, logger *slog.Logger, orderID uuid.UUID, next domain.OrderStatus, stdout io.Writer) error {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	order, err := service.NewOrderService(repository.NewStore(pool), logger).AdvanceStatus(ctx, orderID, next)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "order %s is now %s\n", order.ID, order.Status.Label())
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

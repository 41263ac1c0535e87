package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/stshop/internal"
	"github.com/dukerupert/stshop/internal/auth"
	"github.com/dukerupert/stshop/internal/cookie"
	"github.com/dukerupert/stshop/internal/email"
	"github.com/dukerupert/stshop/internal/events"
	"github.com/dukerupert/stshop/internal/handler"
	"github.com/dukerupert/stshop/internal/handler/storefront"
	"github.com/dukerupert/stshop/internal/jobs"
	"github.com/dukerupert/stshop/internal/middleware"
	"github.com/dukerupert/stshop/internal/repository"
	"github.com/dukerupert/stshop/internal/router"
	"github.com/dukerupert/stshop/internal/routes"
	"github.com/dukerupert/stshop/internal/service"
	"github.com/dukerupert/stshop/internal/telemetry"
	"github.com/dukerupert/stshop/internal/worker"
	"github.com/dukerupert/stshop/web"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	telemetry.InitBusinessMetrics("stshop")

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	store := repository.NewStore(pool)

	// Initialize services
	userService := service.NewUserService(store, auth.NewHasher(cfg.Session.BcryptCost), cfg.Session.TTL, logger)
	catalogService := service.NewCatalogService(store, cfg.PageSize)
	cartService := service.NewCartService(store, logger)
	orderService := service.NewOrderService(store, logger)
	reviewService := service.NewReviewService(store, logger)
	pageService := service.NewPageService(store)

	// ==========================================================================
	// Background processing: order events and manager notifications
	// ==========================================================================

	orderHandlers := jobs.OrderHandlers{Subject: cfg.Events.Subject}

	if cfg.Events.NatsURL != "" {
		publisher, err := events.Connect(cfg.Events.NatsURL, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		orderHandlers.Publisher = events.Instrumented{Publisher: publisher}
	} else {
		logger.Info("NATS_URL not set, order events will not be published")
	}

	var sender email.Sender = email.LogSender{Logger: logger}
	if cfg.Email.Host != "" {
		sender = email.NewSMTPSender(&email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
		}, logger)
	}
	emailService, err := email.NewService(sender, cfg.Email.ManagerEmail)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}
	orderHandlers.Notifier = emailService

	workerDone := make(chan struct{})
	if cfg.Worker.Enabled {
		w := worker.NewWorker(store, orderHandlers, worker.Config{
			PollInterval:    cfg.Worker.PollInterval,
			MaxConcurrency:  cfg.Worker.MaxConcurrency,
			CleanupInterval: cfg.Worker.CleanupInterval,
		}, logger)
		go func() {
			defer close(workerDone)
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", "error", err)
			}
		}()
	} else {
		close(workerDone)
		logger.Info("background worker disabled")
	}

	// ==========================================================================
	// Initialize handlers
	// ==========================================================================

	renderer, err := handler.NewRenderer(web.Templates())
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	cookies := cookie.NewConfig("", cfg.Env == "prod")

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("stshop", prometheus.DefaultRegisterer)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // no HSTS over plain http
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	strictRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer strictRateLimiter.Stop()

	storefrontDeps := routes.StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(catalogService, renderer),
		CartHandler:     storefront.NewCartHandler(cartService, renderer),
		AuthHandler:     storefront.NewAuthHandler(userService, cookies, renderer),
		CheckoutHandler: storefront.NewCheckoutHandler(cartService, orderService, renderer),
		AccountHandler:  storefront.NewAccountHandler(orderService, renderer),
		ReviewHandler:   storefront.NewReviewHandler(reviewService, renderer),
		PagesHandler:    storefront.NewPagesHandler(pageService, catalogService, renderer),
		RequireAuth:     middleware.RequireAuth,
		StrictRateLimit: strictRateLimiter.Middleware,
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		middleware.WithCustomer(userService, cookies),
		middleware.WithCartToken(cookies, cfg.Session.CartTokenTTL),
		middleware.WithRequestLogger(logger),
		telemetry.SentryMiddleware(),
		router.Logger(logger),
		middleware.CSRF(middleware.CSRFConfig{
			CookieConfig: cookies,
			SkipPaths:    []string{"/metrics", "/health"},
		}),
	)

	r.Static("/static/", web.Static())
	if cfg.Storage.Provider == "local" || cfg.Storage.Provider == "" {
		// product images written by shopctl set-image
		r.Static(cfg.Storage.LocalURL+"/", os.DirFS(cfg.Storage.LocalPath))
	}

	// Metrics endpoint (should be protected in production via firewall)
	r.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/health", handler.Health(pool, 2*time.Second))

	routes.RegisterStorefrontRoutes(r, storefrontDeps)

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	stop()
	<-workerDone

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

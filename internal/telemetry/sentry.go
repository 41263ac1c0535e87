package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dukerupert/stshop/internal/domain"
)

const sentryFlushTimeout = 2 * time.Second

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN     string
	Enabled bool

	// Environment identifies the deployment environment (dev, staging, prod)
	Environment string
	Release     string

	// SampleRate is the share of errors captured. Zero means 1.0.
	SampleRate float64

	// TracesSampleRate of 0 disables performance monitoring.
	TracesSampleRate float64

	Debug bool
}

var sentryEnabled bool

// InitSentry initializes the Sentry client. The returned cleanup flushes
// buffered events and must run on shutdown.
func InitSentry(cfg SentryConfig, logger *slog.Logger) (func(), error) {
	sentryEnabled = false

	if !cfg.Enabled {
		logger.Info("Sentry disabled (SENTRY_ENABLED=false)")
		return func() {}, nil
	}

	if cfg.DSN == "" {
		logger.Warn("Sentry DSN not configured, disabling error tracking")
		return func() {}, nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sentry: %w", err)
	}
	sentryEnabled = true

	logger.Info("Sentry initialized",
		"environment", cfg.Environment,
		"release", cfg.Release,
		"sample_rate", sampleRate,
		"traces_sample_rate", cfg.TracesSampleRate,
	)

	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

// IsEnabled returns whether Sentry is currently enabled
func IsEnabled() bool {
	return sentryEnabled
}

// CaptureError reports err with optional extras. A no-op when disabled.
func CaptureError(err error, extras map[string]any) {
	if !IsEnabled() || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		sentry.CaptureException(err)
	})
}

// SentryMiddleware gives every request its own hub carrying the request and,
// when logged in, the customer. Place it after WithCustomer.
func SentryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			hub := sentry.GetHubFromContext(r.Context())
			if hub == nil {
				hub = sentry.CurrentHub().Clone()
			}

			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetRequest(r)
				if id := domain.RequestIDFromContext(r.Context()); id != "" {
					scope.SetTag("request_id", id)
				}
				if user := domain.UserFromContext(r.Context()); user != nil {
					scope.SetUser(sentry.User{
						ID:       user.ID.String(),
						Username: user.Username,
						Email:    user.Email,
					})
				}
			})

			ctx := sentry.SetHubOnContext(r.Context(), hub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CaptureErrorFromContext reports err through the request's hub so the
// request and customer set by SentryMiddleware are attached.
func CaptureErrorFromContext(ctx context.Context, err error, extras map[string]any) {
	if !IsEnabled() || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range extras {
			scope.SetExtra(key, value)
		}
		hub.CaptureException(err)
	})
}

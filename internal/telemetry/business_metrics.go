package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for the cart and checkout flow.
type BusinessMetrics struct {
	// Catalog
	ProductViews    *prometheus.CounterVec
	ProductSearches prometheus.Counter

	// Cart
	CartCreated          *prometheus.CounterVec
	CartRecoveredOnRace  *prometheus.CounterVec
	CartItemsAdded       *prometheus.CounterVec
	CartItemsRemoved     prometheus.Counter
	CartQuantityChanged  prometheus.Counter
	CartCleared          prometheus.Counter
	CartValue            prometheus.Histogram
	CartMutationFailures *prometheus.CounterVec

	// Orders
	OrdersPlaced      *prometheus.CounterVec
	OrderValue        prometheus.Histogram
	OrderItemCount    prometheus.Histogram
	CheckoutFailed    *prometheus.CounterVec
	OrderStatusChange *prometheus.CounterVec

	// Auth & accounts
	Signups     prometheus.Counter
	Logins      prometheus.Counter
	LoginFailed prometheus.Counter
	Reviews     prometheus.Counter

	// Background jobs
	JobsEnqueued  *prometheus.CounterVec
	JobsProcessed *prometheus.CounterVec
	JobsFailed    *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec

	// Notifications
	EventsPublished *prometheus.CounterVec
	EmailSent       *prometheus.CounterVec
	EmailFailed     *prometheus.CounterVec
}

// NewBusinessMetrics creates the metrics and registers them with reg.
// A nil reg registers with the default Prometheus registry.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "stshop"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	f := promauto.With(reg)
	subsystem := "business"

	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	moneyBuckets := []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		ProductViews:    counterVec("product_views_total", "Total product detail page views", "product_slug"),
		ProductSearches: counter("product_searches_total", "Total category searches with a query"),

		// =======================================================================
		// Cart
		// =======================================================================
		CartCreated:         counterVec("carts_created_total", "Total carts created", "owner_kind"),
		CartRecoveredOnRace: counterVec("cart_create_races_total", "Cart creations that lost a race and re-fetched the winner", "owner_kind"),
		CartItemsAdded:      counterVec("cart_items_added_total", "Total add to cart actions", "mode"), // mode: increment, set
		CartItemsRemoved:    counter("cart_items_removed_total", "Total cart lines removed"),
		CartQuantityChanged: counter("cart_quantity_changes_total", "Total cart line quantity changes"),
		CartCleared:         counter("carts_cleared_total", "Total carts emptied"),
		CartValue: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cart_value",
			Help:      "Cart final price after each mutation",
			Buckets:   moneyBuckets,
		}),
		CartMutationFailures: counterVec("cart_mutation_failures_total", "Cart mutations rejected or failed", "operation", "code"),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersPlaced: counterVec("orders_placed_total", "Total orders placed", "buying_type"),
		OrderValue: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value",
			Help:      "Order final price",
			Buckets:   moneyBuckets,
		}),
		OrderItemCount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Number of products per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		CheckoutFailed:    counterVec("checkout_failed_total", "Checkout attempts that did not produce an order", "code"),
		OrderStatusChange: counterVec("order_status_changes_total", "Order status transitions", "status"),

		// =======================================================================
		// Auth & accounts
		// =======================================================================
		Signups:     counter("signups_total", "Total customer registrations"),
		Logins:      counter("logins_total", "Total successful logins"),
		LoginFailed: counter("login_failed_total", "Total failed logins"),
		Reviews:     counter("reviews_total", "Total feedback submissions"),

		// =======================================================================
		// Background jobs
		// =======================================================================
		JobsEnqueued:  counterVec("jobs_enqueued_total", "Total jobs enqueued", "job_type"),
		JobsProcessed: counterVec("jobs_processed_total", "Total jobs completed", "job_type"),
		JobsFailed:    counterVec("jobs_failed_total", "Total job attempts that failed", "job_type"),
		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Job processing duration",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job_type"}),

		// =======================================================================
		// Notifications
		// =======================================================================
		EventsPublished: counterVec("events_published_total", "Events published to the message bus", "subject"),
		EmailSent:       counterVec("emails_sent_total", "Total emails sent", "template"),
		EmailFailed:     counterVec("emails_failed_total", "Total emails that failed to send", "template"),
	}
}

// Business is the process-wide instance. It stays nil until
// InitBusinessMetrics runs, and every caller checks for nil first.
var Business *BusinessMetrics

// InitBusinessMetrics creates the global metrics on the default registry.
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, nil)
	return Business
}

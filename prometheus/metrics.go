package prometheus

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Login counter
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)

	// Stock ledger adjustment counter
	StockAdjustmentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_stock_adjustments_total",
			Help: "Total number of stock ledger adjustments by counter field and outcome",
		},
		[]string{"field", "outcome"}, // outcome is "ok", "insufficient", "not_found", "error"
	)

	// Order state transition counter
	OrderTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_order_transitions_total",
			Help: "Total number of order state transitions",
		},
		[]string{"order_type", "transition", "outcome"},
	)

	// Audit log append counter
	AuditAppendCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_audit_appends_total",
			Help: "Total number of audit log rows appended",
		},
		[]string{"table"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// InitMetrics registers all metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(
		HTTPRequestCounter,
		LoginCounter,
		AuthErrorCounter,
		StockAdjustmentCounter,
		OrderTransitionCounter,
		AuditAppendCounter,
		RequestDuration,
		DBOperationDuration,
	)
}

// RecordAuthError increments the auth error counter for the given type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.WithLabelValues(errorType).Inc()
}

// RecordStockAdjustment increments the stock adjustment counter.
func RecordStockAdjustment(field, outcome string) {
	StockAdjustmentCounter.WithLabelValues(field, outcome).Inc()
}

// RecordOrderTransition increments the order transition counter.
func RecordOrderTransition(orderType, transition, outcome string) {
	OrderTransitionCounter.WithLabelValues(orderType, transition, outcome).Inc()
}

// TrackDBOperation returns a function that records the elapsed time for
// a database operation when invoked. Use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware returns an Echo middleware that records HTTP request metrics.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()

			HTTPRequestCounter.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler(c echo.Context) error {
	promhttp.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

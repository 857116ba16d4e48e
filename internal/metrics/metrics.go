package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_operations_total",
			Help: "Total number of order, invoice and checkout operations",
		},
		[]string{"operation", "status"},
	)

	notificationsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_notifications_total",
			Help: "Notifications handed to a channel",
		},
		[]string{"channel", "status"},
	)
)

const (
	OpCheckout             = "checkout"
	OpOrderStatusUpdate    = "order_status_update"
	OpInvoiceCreate        = "invoice_create"
	OpInvoiceStatusUpdate  = "invoice_status_update"
	OpInvoicePaymentUpdate = "invoice_payment_update"
)

func ObserveHTTP(method string, path string, status int, elapsed time.Duration) {
	s := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, s).Inc()
	httpRequestDuration.WithLabelValues(method, path, s).Observe(elapsed.Seconds())
}

func RecordOperation(operation string, success bool) {
	operations.WithLabelValues(operation, statusLabel(success)).Inc()
}

func RecordNotification(channel string, success bool) {
	notificationsDispatched.WithLabelValues(channel, statusLabel(success)).Inc()
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

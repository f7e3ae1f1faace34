package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reubensocials_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_wallet_transactions_total",
			Help: "Total number of wallet ledger transactions",
		},
		[]string{"kind"},
	)

	PaymentsConfirmedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_payments_confirmed_total",
			Help: "Total number of confirmed external payments",
		},
		[]string{"kind", "status"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_purchases_total",
			Help: "Total number of exclusive content purchases",
		},
		[]string{"method"},
	)

	FollowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_follows_total",
			Help: "Total number of follow toggle operations",
		},
		[]string{"action"},
	)

	NotificationsQueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reubensocials_notifications_queued_total",
			Help: "Total number of notifications queued for delivery",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reubensocials_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWalletTransaction(kind string) {
	WalletTransactionsTotal.WithLabelValues(kind).Inc()
}

func RecordPaymentConfirmed(kind, status string) {
	PaymentsConfirmedTotal.WithLabelValues(kind, status).Inc()
}

func RecordPurchase(method string) {
	PurchasesTotal.WithLabelValues(method).Inc()
}

func RecordFollow(action string) {
	FollowsTotal.WithLabelValues(action).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsQueuedTotal.WithLabelValues(notifType, status).Inc()
}

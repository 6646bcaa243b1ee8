package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "titan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SubscriptionsIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_subscriptions_issued_total",
			Help: "Total number of subscriptions issued",
		},
		[]string{"method"},
	)

	SubscriptionConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "titan_subscription_conflicts_total",
			Help: "Issuance attempts rejected because an active subscription already existed",
		},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "titan_subscriptions_expired_total",
			Help: "Subscriptions transitioned to expired by the sweeper",
		},
	)

	SweeperRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_sweeper_runs_total",
			Help: "Total number of expiry sweeper runs",
		},
		[]string{"result"},
	)

	SweeperItemFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "titan_sweeper_item_failures_total",
			Help: "Per-subscription failures during expiry sweeps",
		},
	)

	ClassBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_class_bookings_total",
			Help: "Total number of class booking attempts",
		},
		[]string{"result"},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "titan_checkins_total",
			Help: "Total number of gym floor check-ins",
		},
	)

	PaymentVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_payment_verifications_total",
			Help: "Payment proof verifications by provider and result",
		},
		[]string{"provider", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "titan_notifications_total",
			Help: "Notifications created, by delivery status",
		},
		[]string{"status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "titan_email_queue_length",
			Help: "Current length of the outbound email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordSubscriptionIssued(method string) {
	SubscriptionsIssuedTotal.WithLabelValues(method).Inc()
}

func RecordBooking(result string) {
	ClassBookingsTotal.WithLabelValues(result).Inc()
}

func RecordPaymentVerification(provider, result string) {
	PaymentVerificationsTotal.WithLabelValues(provider, result).Inc()
}

func RecordSweeperRun(result string) {
	SweeperRunsTotal.WithLabelValues(result).Inc()
}

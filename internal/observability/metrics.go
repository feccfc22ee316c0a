package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	OrdersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_orders_created_total",
			Help: "Gateway orders created",
		},
	)

	PaymentsVerified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_payments_verified_total",
			Help: "Payment verification attempts by outcome",
		},
		[]string{"result"},
	)

	RSVPJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rsvp_joins_total",
			Help: "RSVP joins accepted (including idempotent replays)",
		},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_gateway_request_seconds",
			Help:    "Duration of payment gateway calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	DBTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_db_tx_seconds",
			Help:    "Duration of DB transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "booking_outbox_lag_seconds",
			Help: "Lag of outbox publishing",
		},
	)

	RabbitPublishRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rabbit_publish_retries_total",
			Help: "Total rabbit publish retries",
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_rate_limit_exceeded_total",
			Help: "Total rate limit exceeded",
		},
	)
)

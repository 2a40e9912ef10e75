package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Total number of rejected order placements",
	}, []string{"reason"})

	OrdersApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_approved_total",
		Help: "Total number of orders approved by an admin",
	})

	CartMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Total number of cart mutations",
	}, []string{"action"})

	UsersRegisteredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of user signups",
	})

	PasswordResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "password_resets_total",
		Help: "Total number of password reset actions",
	}, []string{"action"})

	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages",
	}, []string{"sender"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

package handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ordersConsumed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "kafka_consumer",
			Name:      "orders_consumed_total",
			Help:      "Total number of orders created from Kafka messages",
		},
	)

	ordersConsumeFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "kafka_consumer",
			Name:      "orders_failed_total",
			Help:      "Total number of failed order message processing attempts",
		},
	)

	ordersDLQ = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "kafka_consumer",
			Name:      "orders_dlq_total",
			Help:      "Total number of order messages written to DLQ",
		},
	)

	commitErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "kafka_consumer",
			Name:      "commit_errors_total",
			Help:      "Total number of Kafka commit errors",
		},
	)
)

var (
	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "http",
			Name:      "orders_created_total",
			Help:      "Total number of orders created over HTTP",
		},
	)

	ordersCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "http",
			Name:      "orders_cancelled_total",
			Help:      "Total number of cancelled orders",
		},
	)

	statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "order_processing",
			Subsystem: "http",
			Name:      "status_updates_total",
			Help:      "Total number of order status update requests",
		},
		[]string{"result"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(
		ordersConsumed,
		ordersConsumeFailed,
		ordersDLQ,
		commitErrors,

		ordersCreated,
		ordersCancelled,
		statusUpdates,
	)
}

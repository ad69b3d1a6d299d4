// Package observability provides tracing and application metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oacmarket_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikesTotal counts like/unlike operations by result.
	LikesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oacmarket_likes_total",
		Help: "Total like and unlike operations by outcome",
	}, []string{"operation", "outcome"})

	// GuestMessagesTotal counts guest messages posted to stores.
	GuestMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oacmarket_guest_messages_total",
		Help: "Total guest messages appended to store message lists",
	})

	// NotificationAttempts counts outbound seller notification attempts by event type.
	NotificationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oacmarket_notification_attempts_total",
		Help: "Total seller notification attempts by event type",
	}, []string{"event"})

	// NotificationFailures counts outbound seller notification failures by reason.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oacmarket_notification_failures_total",
		Help: "Total seller notification failures by reason",
	}, []string{"reason"})
)

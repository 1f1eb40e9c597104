package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts status writes by resulting status, no-op
	// re-stamps included.
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domuus_presence_transitions_total",
		Help: "Presence status writes, labelled by resulting status.",
	}, []string{"status"})

	NotificationsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "domuus_notifications_delivered_total",
		Help: "Notification events delivered to a contact.",
	})

	NotificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "domuus_notifications_failed_total",
		Help: "Notification delivery attempts that failed.",
	})

	NotificationsDead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "domuus_notifications_dead_total",
		Help: "Notification events parked after exhausting retries.",
	})
)

// Package metrics defines the Prometheus metrics exported by the notification
// relay. It is the single source of truth for metric names, labels, and help
// strings; all metrics are registered with the default registry at init time
// via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notifyd"

// ConnectedUsers tracks the number of users currently held by the registry.
var ConnectedUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_users",
		Help:      "Current number of registered (online) users.",
	},
)

// SessionsOpenedTotal counts successful authentications.
var SessionsOpenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_opened_total",
		Help:      "Total number of identities issued by the authentication endpoint.",
	},
)

// NotificationsSentTotal counts notifications accepted into a mailbox.
// Label:
//   - kind: notification payload kind (e.g. "MESSAGE", "TYPING", "ONLINE")
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications enqueued into user mailboxes.",
	},
	[]string{"kind"},
)

// NotificationsDroppedTotal counts best-effort deliveries that were discarded.
// Label:
//   - reason: why the enqueue failed ("mailbox_full" or "mailbox_closed")
var NotificationsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped instead of delivered.",
	},
	[]string{"reason"},
)

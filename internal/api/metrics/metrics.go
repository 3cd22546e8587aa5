// Package metrics defines all custom Prometheus metrics for the LMS API.
// It is the single source of truth for metric names, labels, and help
// strings. Metrics register themselves with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lms"

// NotificationsPublishedTotal counts notifications persisted and pushed.
// Label:
//   - kind: "like", "comment", "system" or "invite"
var NotificationsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Total number of notifications persisted and published to user rooms.",
	},
	[]string{"kind"},
)

// SocketConnections tracks the number of live websocket connections.
var SocketConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "socket_connections",
		Help:      "Current number of open websocket connections.",
	},
)

// SocketEventsTotal counts fan-out events delivered to rooms.
// Label:
//   - event: event name (e.g. "new_notification", "receive_message")
var SocketEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "socket_events_total",
		Help:      "Total number of events published to rooms, by event name.",
	},
	[]string{"event"},
)

// MessagesSentTotal counts chat messages durably appended.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages appended to conversations.",
	},
)

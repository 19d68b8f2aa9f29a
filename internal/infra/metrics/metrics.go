package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Per-recipient notification outcomes.
const (
	ResultSent             = "sent"
	ResultDuplicate        = "duplicate"
	ResultThrottled        = "throttled"
	ResultUnknownRecipient = "unknown_recipient"
)

var (
	notifyRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_requests_total",
			Help: "Inbound /out requests by outcome (dispatched/rejected).",
		},
		[]string{"outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Per-recipient delivery gate results (sent/duplicate/throttled/unknown_recipient).",
		},
		[]string{"result"},
	)

	notificationSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sends_total",
			Help: "Completed fire-and-forget bot sends by success.",
		},
		[]string{"success"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Token issuance events (new/existing).",
		},
		[]string{"kind"},
	)

	storeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipient_store_ops_total",
			Help: "Remote recipient store operations by op and success.",
		},
		[]string{"op", "success"},
	)
)

func init() {
	register(notifyRequests, notifications, notificationSends, registrations, storeOps)
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncRequest(outcome string) {
	notifyRequests.WithLabelValues(norm(outcome)).Inc()
}

func IncNotification(result string) {
	notifications.WithLabelValues(norm(result)).Inc()
}

func IncSend(success bool) {
	notificationSends.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func IncRegistration(kind string) {
	registrations.WithLabelValues(norm(kind)).Inc()
}

func IncStoreOp(op string, success bool) {
	storeOps.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
}

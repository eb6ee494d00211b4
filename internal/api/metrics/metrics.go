// Package metrics defines and registers all custom Prometheus metrics for the
// clientdesk API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package init; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clientdesk"

// ── Client directory metrics ─────────────────────────────────────────────────

// ClientsCreatedTotal counts newly registered clients.
// Label:
//   - client_type: "individual" or "corporate"
var ClientsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_created_total",
		Help:      "Total number of clients created, by client type.",
	},
	[]string{"client_type"},
)

// ClientsDeletedTotal counts permanently deleted clients.
var ClientsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_deleted_total",
		Help:      "Total number of clients permanently deleted.",
	},
)

// DuplicateEmailTotal counts rejected writes due to the (email, firm)
// uniqueness constraint.
// Label:
//   - operation: "create" or "update"
var DuplicateEmailTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_email_total",
		Help:      "Total number of writes rejected by the per-firm email uniqueness constraint.",
	},
	[]string{"operation"},
)

// StatsCacheTotal counts firm-stats cache decisions.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of firm-stats cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Newsletter metrics ───────────────────────────────────────────────────────

// NewsletterRecipientsTotal counts per-recipient send outcomes.
// Label:
//   - status: "sent" or "failed"
var NewsletterRecipientsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "newsletter_recipients_total",
		Help:      "Total number of individual newsletter sends, by outcome.",
	},
	[]string{"status"},
)

// NewsletterRunsTotal counts dispatch runs.
// Label:
//   - result: "success" (at least one send succeeded) or "failure"
var NewsletterRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "newsletter_runs_total",
		Help:      "Total number of newsletter dispatch runs, by overall result.",
	},
	[]string{"result"},
)

// NewsletterBatchDuration measures how long a single batch of concurrent
// sends takes, excluding the inter-batch pause.
var NewsletterBatchDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "newsletter_batch_duration_seconds",
		Help:      "Duration of one newsletter batch from first send to last completion.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// ── Mailbox gateway metrics ──────────────────────────────────────────────────

// MailboxCallsTotal counts outbound calls to the mail provider.
// Labels:
//   - operation: "fetch", "profile", "send", "exchange"
//   - result: "ok" or "error"
var MailboxCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mailbox_calls_total",
		Help:      "Total number of mail provider API calls, by operation and result.",
	},
	[]string{"operation", "result"},
)

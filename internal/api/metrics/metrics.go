// Package metrics defines and registers all custom Prometheus metrics for
// the policy engine. It is the single source of truth for metric names,
// labels, and help strings.
//
// promauto registers everything with the default registry at package load;
// the /metrics endpoint exposes it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "policyengine"

// ── Storage routing metrics ──────────────────────────────────────────────────

// StorageFallbacksTotal counts cloud-store failures that were recovered by
// the local fallback. This is the operator's signal for a degraded cloud
// backend; a recovered fallback is never surfaced to the caller as an error.
// Label:
//   - op: the routed operation ("add", "update", "delete", "get", "stream")
var StorageFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "storage_fallbacks_total",
		Help:      "Total cloud-store failures recovered by the local fallback, by operation.",
	},
	[]string{"op"},
)

// StreamSwitchesTotal counts live-query re-subscriptions caused by session
// transitions (guest ⇄ authenticated).
var StreamSwitchesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_switches_total",
		Help:      "Total live-query store switches triggered by session transitions.",
	},
)

// ── Policy metrics ───────────────────────────────────────────────────────────

// PoliciesCreatedTotal counts newly created policies.
// Label:
//   - type: the insurance type (e.g. "AUTO", "HOME")
var PoliciesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policies_created_total",
		Help:      "Total number of policies created, by insurance type.",
	},
	[]string{"type"},
)

// CapacityRejectionsTotal counts adds rejected by the free-tier ceiling.
var CapacityRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "capacity_rejections_total",
		Help:      "Total policy adds rejected by the free-tier active-policy ceiling.",
	},
)

// ── Reminder metrics ─────────────────────────────────────────────────────────

// RemindersEmittedTotal counts reminder events handed to the dispatcher.
// Label:
//   - severity: "expired", "expires_today", or "expiring_soon"
var RemindersEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_emitted_total",
		Help:      "Total expiry reminders emitted, by severity.",
	},
	[]string{"severity"},
)

// ReminderDedupTotal counts dedup decisions during the reminder scan.
// Label:
//   - result: "hit" (already sent today, skipped) or "miss" (emitted)
var ReminderDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_dedup_total",
		Help:      "Total reminder deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ReminderScanDuration measures a full reminder scan end-to-end.
var ReminderScanDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_scan_duration_seconds",
		Help:      "Duration of a full reminder scan over active policies.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

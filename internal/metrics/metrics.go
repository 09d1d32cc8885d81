// Package metrics holds the Prometheus collectors for the scoring engine,
// the hosted store, the change feed and the HTTP API. Collectors register
// with the default registry on import and are served by promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "habitquest"

// ─── Scoring ────────────────────────────────────────────────────────────────

// Toggles counts completion toggles by direction (complete, uncomplete).
var Toggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scoring",
	Name:      "toggles_total",
	Help:      "Total completion toggles by direction.",
}, []string{"direction"})

// XPAwarded sums positive XP deltas, achievement rewards included.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scoring",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded to players.",
})

var PerfectDays = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scoring",
	Name:      "perfect_days_total",
	Help:      "Total perfect-day bonuses granted.",
})

var AchievementsUnlocked = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "scoring",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked by achievement id.",
}, []string{"achievement"})

// ─── Store ──────────────────────────────────────────────────────────────────

// StoreWriteFailures counts failed remote writes by command.
var StoreWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "write_failures_total",
	Help:      "Total failed hosted store writes by command.",
}, []string{"command"})

// Rollbacks counts local state restorations after a failed remote write.
var Rollbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "rollbacks_total",
	Help:      "Total optimistic updates reverted after a failed remote write.",
})

var LocalOnlyOwners = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "local_only_owners",
	Help:      "Loaded owners running without a hosted store.",
})

// ─── Change feed ────────────────────────────────────────────────────────────

// FeedChanges counts inbound changes by entity kind and outcome
// (applied, ignored, invalid, failed, dropped).
var FeedChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "feed",
	Name:      "changes_total",
	Help:      "Total change feed notifications by entity and outcome.",
}, []string{"entity", "outcome"})

var FeedQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "feed",
	Name:      "queue_depth",
	Help:      "Current number of changes waiting to be applied.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by route pattern, method and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"route", "method", "status"})

var HTTPRateLimited = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "rate_limited_total",
	Help:      "Requests rejected by the rate limiter.",
})

var HTTPIdempotentReplays = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "idempotent_replays_total",
	Help:      "Responses served from the idempotency cache.",
})

// ─── Jobs ───────────────────────────────────────────────────────────────────

var JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "jobs",
	Name:      "runs_total",
	Help:      "Total scheduled job runs by job and result.",
}, []string{"job", "result"})

// Package telemetry provides Prometheus metrics, OpenTelemetry tracing setup,
// and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	AnnouncementsSeen   prometheus.Counter
	AnnouncementsParsed prometheus.Counter
	ParseFailures       prometheus.Counter
	GeocodeFallbacks    prometheus.Counter
	GymInserts          prometheus.Counter
	GymConflicts        prometheus.Counter
	LookupRequests      prometheus.Counter
	LookupMisses        prometheus.Counter

	// Histograms (seconds)
	PipelineDuration prometheus.Observer
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		AnnouncementsSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_announcements_seen_total", Help: "Raid announcements received from the upstream poster"})
		AnnouncementsParsed = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_announcements_parsed_total", Help: "Raid announcements parsed and reposted"})
		ParseFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_parse_failures_total", Help: "Announcements dropped because extraction failed"})
		GeocodeFallbacks = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_geocode_fallbacks_total", Help: "Reverse geocode lookups that fell back to the fixed label"})
		GymInserts = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_gym_inserts_total", Help: "New gym locations registered"})
		GymConflicts = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_gym_conflicts_total", Help: "Gym inserts skipped because the name already existed"})
		LookupRequests = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_lookup_requests_total", Help: "Active-raid lookup commands handled"})
		LookupMisses = promauto.NewCounter(prometheus.CounterOpts{Name: "raid_lookup_misses_total", Help: "Active-raid lookups with no live match"})
		PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "raid_pipeline_duration_seconds", Help: "Announcement pipeline duration seconds", Buckets: prometheus.DefBuckets})
	})
}

// CountGeocodeFallback increments the fallback counter if metrics are up.
func CountGeocodeFallback() {
	if GeocodeFallbacks != nil {
		GeocodeFallbacks.Inc()
	}
}

// CountGymInsert records a registry write outcome.
func CountGymInsert(inserted bool) {
	if inserted {
		if GymInserts != nil {
			GymInserts.Inc()
		}
		return
	}
	if GymConflicts != nil {
		GymConflicts.Inc()
	}
}

// TimeFunc measures the duration of fn and records it in obs if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------

type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns the correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with the corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}

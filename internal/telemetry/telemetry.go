// Package telemetry defines the Prometheus metrics shared across the crawl
// pipeline and the handler that exposes them.
package telemetry

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelcrawler_pages_total",
			Help: "Total pages fetched, labeled by host and outcome.",
		},
		[]string{"host", "outcome"},
	)

	fetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "labelcrawler_fetch_retries_total",
			Help: "Total fetch retry attempts.",
		},
	)

	throttlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelcrawler_throttles_total",
			Help: "Total 403/429 responses, labeled by host.",
		},
		[]string{"host"},
	)

	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelcrawler_candidates_total",
			Help: "Candidates passing the threshold gate, labeled by verdict.",
		},
		[]string{"verdict"},
	)

	targetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelcrawler_targets_total",
			Help: "Targets finished, labeled by terminal status.",
		},
		[]string{"status"},
	)

	rateLimitDelaySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelcrawler_rate_limit_delay_seconds",
			Help:    "Histogram of politeness wait durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"host"},
	)
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// SanitizeHost extracts a lowercase hostname from a URL or host string.
func SanitizeHost(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObservePage records one fetch attempt outcome for a host. Outcome is one
// of "ok", "not_html", "transport_error", or the numeric HTTP status.
func ObservePage(host, outcome string) {
	pagesTotal.WithLabelValues(SanitizeHost(host), outcome).Inc()
}

// ObserveRetry counts one scheduled retry.
func ObserveRetry() {
	fetchRetriesTotal.Inc()
}

// ObserveThrottle counts one 403/429 response.
func ObserveThrottle(host string) {
	throttlesTotal.WithLabelValues(SanitizeHost(host)).Inc()
}

// ObserveCandidates adds to the kept/dropped candidate counters.
func ObserveCandidates(verdict string, n int) {
	if n > 0 {
		candidatesTotal.WithLabelValues(verdict).Add(float64(n))
	}
}

// ObserveTarget counts one finished target by terminal status.
func ObserveTarget(status string) {
	targetsTotal.WithLabelValues(status).Inc()
}

// ObserveRateLimitDelay records the duration of a politeness wait.
func ObserveRateLimitDelay(host string, d time.Duration) {
	rateLimitDelaySeconds.WithLabelValues(SanitizeHost(host)).Observe(d.Seconds())
}

// StatusLabel renders an HTTP status for metric labels.
func StatusLabel(code int) string {
	return strconv.Itoa(code)
}

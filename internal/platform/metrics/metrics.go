// Package metrics exposes Prometheus instruments for the quote card.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quotecard"

// Quote fetch outcomes.
const (
	QuoteRemote   = "remote"
	QuoteFallback = "fallback"
)

// Preload results.
const (
	PreloadCommitted = "committed"
	PreloadFailed    = "failed"
	PreloadStale     = "stale"
)

// Refresh cycle outcomes.
const (
	RefreshApplied   = "applied"
	RefreshStale     = "stale"
	RefreshCancelled = "cancelled"
)

// Metrics holds the card's collectors. A nil *Metrics records nothing, so
// the CLI can run without a registry.
type Metrics struct {
	quoteFetches      *prometheus.CounterVec
	backgroundFetches *prometheus.CounterVec
	preloads          *prometheus.CounterVec
	preloadDuration   *prometheus.HistogramVec
	refreshCycles     *prometheus.CounterVec
	refreshDuration   prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		quoteFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_fetches_total",
			Help:      "Quotes served, by source.",
		}, []string{"outcome"}),
		backgroundFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_fetches_total",
			Help:      "Background fetches, by mode and status.",
		}, []string{"mode", "status"}),
		preloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preloads_total",
			Help:      "Background image preloads, by result.",
		}, []string{"result"}),
		preloadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "preload_duration_seconds",
			Help:      "Time spent preloading a background image.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"result"}),
		refreshCycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles, by outcome.",
		}, []string{"outcome"}),
		refreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a refresh cycle from start to settled.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// Handler serves the gathered metrics in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveQuote counts a served quote.
func (m *Metrics) ObserveQuote(outcome string) {
	if m == nil {
		return
	}

	m.quoteFetches.WithLabelValues(outcome).Inc()
}

// ObserveBackground counts a background fetch.
func (m *Metrics) ObserveBackground(mode, status string) {
	if m == nil {
		return
	}

	m.backgroundFetches.WithLabelValues(mode, status).Inc()
}

// ObservePreload counts a preload and records how long it took.
func (m *Metrics) ObservePreload(result string, d time.Duration) {
	if m == nil {
		return
	}

	m.preloads.WithLabelValues(result).Inc()
	m.preloadDuration.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveRefresh counts a finished refresh cycle.
func (m *Metrics) ObserveRefresh(outcome string, d time.Duration) {
	if m == nil {
		return
	}

	m.refreshCycles.WithLabelValues(outcome).Inc()
	m.refreshDuration.Observe(d.Seconds())
}

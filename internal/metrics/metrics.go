// Package metrics provides the centralized Prometheus registry for the service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ProviderFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "provider_fetches_total",
		Help:      "Total number of upstream fetches per provider and operation",
	}, []string{"provider", "operation"})
	ProviderFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "provider_failures_total",
		Help:      "Total number of failed upstream fetches per provider and operation",
	}, []string{"provider", "operation"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "cache_hits_total",
		Help:      "Total number of cache hits per store",
	}, []string{"store"})
	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "cache_misses_total",
		Help:      "Total number of cache misses per store",
	}, []string{"store"})
	FormScoresComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "form_scores_computed_total",
		Help:      "Total number of trainer form scores computed against the store",
	})
	RaceViewsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "epistemo",
		Name:      "race_views_built_total",
		Help:      "Total number of race views assembled",
	})
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "epistemo",
		Name:      "request_duration_seconds",
		Help:      "Duration of inbound HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "status"})
	RaceViewBuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "epistemo",
		Name:      "race_view_build_duration_seconds",
		Help:      "Duration of race view assembly in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(ProviderFetchesTotal)
		registry.MustRegister(ProviderFailuresTotal)
		registry.MustRegister(CacheHitsTotal)
		registry.MustRegister(CacheMissesTotal)
		registry.MustRegister(FormScoresComputedTotal)
		registry.MustRegister(RaceViewsBuiltTotal)

		// Register histogram metrics
		registry.MustRegister(RequestDuration)
		registry.MustRegister(RaceViewBuildDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordProviderFetch records an upstream fetch attempt.
func RecordProviderFetch(provider, operation string) {
	ProviderFetchesTotal.WithLabelValues(provider, operation).Inc()
}

// RecordProviderFailure records a failed upstream fetch.
func RecordProviderFailure(provider, operation string) {
	ProviderFailuresTotal.WithLabelValues(provider, operation).Inc()
}

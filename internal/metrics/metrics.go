// Package metrics exposes prometheus counters for cost runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "energy_"

	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoMatch = "no_match"
	CacheHit      = "hit"
	CacheMiss     = "miss"
	SourceHourly  = "hourly"
	SourceQuarter = "quarter_hour"
	SourceCurve   = "curve"
)

var (
	registerOnce sync.Once

	runsTotal     *prometheus.CounterVec
	runLatency    *prometheus.HistogramVec
	gapsTotal     *prometheus.CounterVec
	droppedTotal  *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
)

// Init registers the run metrics on the default registry. Calling it more than
// once is a no-op. Until it is called every helper below does nothing.
func Init() {
	registerOnce.Do(func() {
		runsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total cost computations by result",
			},
			[]string{"result"},
		)
		runLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_duration_seconds",
				Help:    "Cost computation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		gapsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "coverage_gaps_total",
				Help: "Curve buckets without a matching price by kind",
			},
			[]string{"kind"},
		)
		droppedTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dropped_rows_total",
				Help: "Source rows dropped for unparseable values by source",
			},
			[]string{"source"},
		)
		cacheRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "price_cache_total",
				Help: "Price cache lookups by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			runsTotal,
			runLatency,
			gapsTotal,
			droppedTotal,
			cacheRequests,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRun records one computation and its duration.
func ObserveRun(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if runsTotal != nil {
		runsTotal.WithLabelValues(result).Inc()
	}
	if runLatency != nil {
		runLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddGaps counts coverage gaps of one kind.
func AddGaps(kind string, n int) {
	if n <= 0 || gapsTotal == nil {
		return
	}
	gapsTotal.WithLabelValues(kind).Add(float64(n))
}

// AddDropped counts dropped source rows.
func AddDropped(source string, n int) {
	if n <= 0 || droppedTotal == nil {
		return
	}
	droppedTotal.WithLabelValues(source).Add(float64(n))
}

// IncCache counts a price cache lookup.
func IncCache(result string) {
	if cacheRequests != nil {
		cacheRequests.WithLabelValues(result).Inc()
	}
}

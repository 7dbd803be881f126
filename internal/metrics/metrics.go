// Package metrics holds the Prometheus collectors of the admin service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// wasteGenerationRuns counts generation runs by result (success, error).
	wasteGenerationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_waste_generation_runs_total",
		Help: "Total number of waste price generation runs by result",
	}, []string{"result"})

	// wasteGenerationDuration tracks how long a generation run takes.
	wasteGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "admin_waste_generation_duration_seconds",
		Help:    "Time taken to regenerate waste prices",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	// wastePricesGenerated counts proposals written by generation runs.
	wastePricesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admin_waste_prices_generated_total",
		Help: "Total number of waste price proposals generated",
	})

	// wasteRowsSkipped counts expiry rows that could not be priced.
	wasteRowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_waste_rows_skipped_total",
		Help: "Total number of expiry rows skipped during generation by reason",
	}, []string{"reason"}) // reason: missing_product, missing_price, invalid_input

	// marginFloorHits counts suggestions raised to the minimum margin.
	marginFloorHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admin_waste_margin_floor_hits_total",
		Help: "Total number of waste suggestions raised to the minimum margin",
	})

	// sellPrices counts index pricing results by status.
	sellPrices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_index_sell_prices_total",
		Help: "Total number of index sell price calculations by status",
	}, []string{"status"})

	// catalogRequests counts upstream catalog calls.
	catalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_catalog_requests_total",
		Help: "Total number of catalog API requests by endpoint and result",
	}, []string{"endpoint", "result"})

	// catalogRequestDuration tracks upstream latency.
	catalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_catalog_request_duration_seconds",
		Help:    "Catalog API request latency by endpoint",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	// catalogCache counts cache lookups by endpoint and outcome (hit, miss).
	catalogCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_catalog_cache_lookups_total",
		Help: "Total number of catalog cache lookups by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// cacheBreakerState is the catalog cache circuit state (0 closed, 1 open, 2 half-open).
	cacheBreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "admin_catalog_cache_breaker_state",
		Help: "Circuit breaker state of the catalog cache (0 closed, 1 open, 2 half-open)",
	})

	// throttledRequests counts admin API requests rejected by the rate limiter.
	throttledRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_http_throttled_requests_total",
		Help: "Total number of API requests rejected by the rate limiter by client kind",
	}, []string{"client"}) // client: user, ip

	// indexImportRows counts imported index value rows by outcome (imported, rejected).
	indexImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_index_import_rows_total",
		Help: "Total number of index value import rows by outcome",
	}, []string{"outcome"})
)

// Recorder provides methods to record service metrics.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordGeneration records a finished generation run.
func (r *Recorder) RecordGeneration(duration time.Duration, generated int, err error) {
	wasteGenerationDuration.Observe(duration.Seconds())
	if err != nil {
		wasteGenerationRuns.WithLabelValues("error").Inc()
		return
	}
	wasteGenerationRuns.WithLabelValues("success").Inc()
	wastePricesGenerated.Add(float64(generated))
}

// RecordSkippedRow records an expiry row that produced no proposal.
func (r *Recorder) RecordSkippedRow(reason string) {
	wasteRowsSkipped.WithLabelValues(reason).Inc()
}

// RecordMarginFloor records a suggestion that hit the margin floor.
func (r *Recorder) RecordMarginFloor() {
	marginFloorHits.Inc()
}

// RecordSellPrice records one index pricing result.
func (r *Recorder) RecordSellPrice(status string) {
	sellPrices.WithLabelValues(status).Inc()
}

// RecordCatalogRequest records one upstream call.
func (r *Recorder) RecordCatalogRequest(endpoint string, duration time.Duration, err error) {
	catalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	result := "success"
	if err != nil {
		result = "error"
	}
	catalogRequests.WithLabelValues(endpoint, result).Inc()
}

// RecordCacheHit records a catalog cache hit.
func (r *Recorder) RecordCacheHit(endpoint string) {
	catalogCache.WithLabelValues(endpoint, "hit").Inc()
}

// RecordCacheMiss records a catalog cache miss.
func (r *Recorder) RecordCacheMiss(endpoint string) {
	catalogCache.WithLabelValues(endpoint, "miss").Inc()
}

// RecordImport records the outcome of an index value import.
func (r *Recorder) RecordImport(imported, rejected int) {
	indexImportRows.WithLabelValues("imported").Add(float64(imported))
	indexImportRows.WithLabelValues("rejected").Add(float64(rejected))
}

// RecordCacheBreakerState records the catalog cache circuit state.
func (r *Recorder) RecordCacheBreakerState(state int) {
	cacheBreakerState.Set(float64(state))
}

// RecordThrottled records a request rejected by the inbound rate limiter.
func (r *Recorder) RecordThrottled(client string) {
	throttledRequests.WithLabelValues(client).Inc()
}

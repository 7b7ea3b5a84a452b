// Package prometheus instruments courserec services with Prometheus
// metrics.
//
// Metrics:
//   - courserec_requests_total{operation, code}: calls by outcome, where
//     code is "ok" or the application error code
//   - courserec_request_duration_seconds{operation}: call latency
//   - courserec_retrieved_courses: courses returned per retrieval
//   - courserec_indexed_courses_total{outcome}: indexing outcomes
package prometheus

import (
	"time"

	"github.com/fwojciec/courserec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors shared by the decorators.
type Metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	retrieved prometheus.Histogram
	indexed   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courserec",
			Name:      "requests_total",
			Help:      "Total recommendation pipeline calls by operation and outcome.",
		}, []string{"operation", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "courserec",
			Name:      "request_duration_seconds",
			Help:      "Latency of recommendation pipeline calls.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		retrieved: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "courserec",
			Name:      "retrieved_courses",
			Help:      "Number of courses returned per retrieval.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		indexed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courserec",
			Name:      "indexed_courses_total",
			Help:      "Courses processed by the indexer by outcome.",
		}, []string{"outcome"}),
	}
}

// RecordIndex adds the outcome counts of an indexing run.
func (m *Metrics) RecordIndex(indexed, skipped, failed int) {
	m.indexed.WithLabelValues("indexed").Add(float64(indexed))
	m.indexed.WithLabelValues("skipped").Add(float64(skipped))
	m.indexed.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) observe(operation string, begin time.Time, err error) {
	code := "ok"
	if err != nil {
		code = courserec.ErrorCode(err)
	}
	m.requests.WithLabelValues(operation, code).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(begin).Seconds())
}

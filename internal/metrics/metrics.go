// Package metrics exposes Prometheus instrumentation for the analysis
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors used by the transport layer. Register it
// once per process; the HTTP router exposes the scrape endpoint.
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	AnalysisDuration   prometheus.Histogram
	BelowThresholdHits prometheus.Counter
	UploadBytes        prometheus.Histogram
}

// New creates and registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "globe",
			Name:      "analyses_total",
			Help:      "Pipeline runs by source format and outcome.",
		}, []string{"format", "outcome"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "globe",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end pipeline latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		BelowThresholdHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "globe",
			Name:      "below_threshold_entities_total",
			Help:      "Entities found below the minimum effective tax rate.",
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "globe",
			Name:      "upload_bytes",
			Help:      "Size distribution of uploaded files.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

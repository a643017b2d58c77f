package core

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tutornest-ai/tutornest/pkg/metrics"
)

type Metrics struct {
	modelRequestTime *prometheus.HistogramVec
	modelError       *prometheus.CounterVec
	tutorQuery       *prometheus.CounterVec
	documentIngest   *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	return &Metrics{
		modelRequestTime: metrics.NewHistogramVec("model_request_time", []string{"driver"}),
		modelError:       metrics.NewCounterVec("model_error", []string{"driver"}),
		tutorQuery:       metrics.NewCounterVec("tutor_query", []string{"result"}),
		documentIngest:   metrics.NewCounterVec("document_ingest", []string{"status"}),
	}
}

func (m *Metrics) ModelRequestTimer(driver string) *prometheus.Timer {
	return prometheus.NewTimer(m.modelRequestTime.WithLabelValues(driver))
}

func (m *Metrics) ModelErrorInc(driver string) {
	m.modelError.WithLabelValues(driver).Inc()
}

// TutorQueryInc result 取 grounded | declined | degraded
func (m *Metrics) TutorQueryInc(result string) {
	m.tutorQuery.WithLabelValues(result).Inc()
}

func (m *Metrics) DocumentIngestInc(status string) {
	m.documentIngest.WithLabelValues(status).Inc()
}

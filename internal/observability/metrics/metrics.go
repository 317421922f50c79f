package metrics

import "github.com/prometheus/client_golang/prometheus"

// WorkflowMetrics exposes counters/histograms for the appointment
// workflow stages.
type WorkflowMetrics struct {
	createdTotal    *prometheus.CounterVec
	batchItemsTotal *prometheus.CounterVec
	batchLatency    *prometheus.HistogramVec
}

// Batch item outcomes reported by the SQS consumers.
const (
	OutcomeOK      = "ok"
	OutcomeRetry   = "retry"
	OutcomeDropped = "dropped"
)

func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	m := &WorkflowMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "workflow",
			Name:      "created_total",
			Help:      "Total appointments accepted by the API",
		}, []string{"country"}),
		batchItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "appointments",
			Subsystem: "workflow",
			Name:      "batch_items_total",
			Help:      "Batch items handled by the SQS consumers",
		}, []string{"worker", "outcome"}),
		batchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "appointments",
			Subsystem: "workflow",
			Name:      "batch_item_seconds",
			Help:      "Latency of handling one batch item",
			Buckets:   prometheus.DefBuckets,
		}, []string{"worker"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.batchItemsTotal, m.batchLatency)
	return m
}

func (m *WorkflowMetrics) ObserveCreated(country string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(country).Inc()
}

func (m *WorkflowMetrics) ObserveBatchItem(worker, outcome string) {
	if m == nil {
		return
	}
	m.batchItemsTotal.WithLabelValues(worker, outcome).Inc()
}

func (m *WorkflowMetrics) ObserveBatchLatency(worker string, seconds float64) {
	if m == nil {
		return
	}
	m.batchLatency.WithLabelValues(worker).Observe(seconds)
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, families []*dto.MetricFamily, name string) *dto.MetricFamily {
	t.Helper()
	for _, family := range families {
		if family.GetName() == name {
			return family
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func TestWorkflowMetricsRecordObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)

	m.ObserveCreated("PE")
	m.ObserveCreated("PE")
	m.ObserveCreated("CL")
	m.ObserveBatchItem("processor", OutcomeOK)
	m.ObserveBatchItem("processor", OutcomeRetry)
	m.ObserveBatchLatency("finalizer", 0.25)

	families, err := reg.Gather()
	require.NoError(t, err)

	created := findFamily(t, families, "appointments_workflow_created_total")
	byCountry := make(map[string]float64)
	for _, metric := range created.GetMetric() {
		byCountry[labelValue(metric, "country")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, float64(2), byCountry["PE"])
	assert.Equal(t, float64(1), byCountry["CL"])

	items := findFamily(t, families, "appointments_workflow_batch_items_total")
	assert.Len(t, items.GetMetric(), 2)

	latency := findFamily(t, families, "appointments_workflow_batch_item_seconds")
	require.Len(t, latency.GetMetric(), 1)
	assert.Equal(t, uint64(1), latency.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *WorkflowMetrics

	assert.NotPanics(t, func() {
		m.ObserveCreated("PE")
		m.ObserveBatchItem("processor", OutcomeOK)
		m.ObserveBatchLatency("processor", 0.1)
	})
}

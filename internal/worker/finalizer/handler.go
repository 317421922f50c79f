// Package finalizer consumes completion-event batches and transitions
// appointments to completed in the fast store.
package finalizer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/batebc/backend-challenge/internal/appointment"
	"github.com/batebc/backend-challenge/internal/observability/metrics"
	"github.com/batebc/backend-challenge/pkg/logging"
)

const workerName = "finalizer"

var tracer = otel.Tracer("appointments.worker.finalizer")

// statusFinalizer is the slice of the workflow service this worker
// needs.
type statusFinalizer interface {
	Finalize(ctx context.Context, id string) error
}

// completionEnvelope is the EventBridge event as delivered to SQS.
type completionEnvelope struct {
	Detail struct {
		AppointmentID string `json:"appointmentId"`
	} `json:"detail"`
}

// Handler adapts completion-event SQS batches to Finalize calls with
// per-item failure reporting.
type Handler struct {
	service statusFinalizer
	metrics *metrics.WorkflowMetrics
	logger  *logging.Logger
}

// NewHandler wires the batch handler. metrics may be nil.
func NewHandler(service statusFinalizer, m *metrics.WorkflowMetrics, logger *logging.Logger) *Handler {
	if service == nil {
		panic("finalizer: workflow service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Handle finalizes every record independently. A second completion for
// an already-completed appointment and a completion for an unknown id
// are both acknowledged, not redelivered: redelivery cannot fix either,
// it only loops the poison message.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	h.logger.Info("finalizing completion batch", "count", len(event.Records))

	var failures []events.SQSBatchItemFailure
	for _, record := range event.Records {
		start := time.Now()
		err := h.handleRecord(ctx, record)
		h.metrics.ObserveBatchLatency(workerName, time.Since(start).Seconds())

		switch {
		case err == nil:
			h.metrics.ObserveBatchItem(workerName, metrics.OutcomeOK)
		case appointment.Retryable(err):
			h.metrics.ObserveBatchItem(workerName, metrics.OutcomeRetry)
			h.logger.Error("appointment finalization failed, item will be redelivered",
				"message_id", record.MessageId,
				"error", err,
			)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		default:
			h.metrics.ObserveBatchItem(workerName, metrics.OutcomeDropped)
			h.logger.Warn("acknowledging unfixable completion event",
				"message_id", record.MessageId,
				"error", err,
			)
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func (h *Handler) handleRecord(ctx context.Context, record events.SQSMessage) error {
	ctx, span := tracer.Start(ctx, "finalizer.handle_record")
	defer span.End()

	var envelope completionEnvelope
	if err := json.Unmarshal([]byte(record.Body), &envelope); err != nil {
		err = appointment.NewValidationError("malformed completion event: %v", err)
		span.RecordError(err)
		return err
	}

	id := strings.TrimSpace(envelope.Detail.AppointmentID)
	if id == "" {
		err := appointment.NewValidationError("completion event missing appointmentId")
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("appointment.id", id))

	if err := h.service.Finalize(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Package processor consumes country-partitioned dispatch batches and
// drives the Process stage of the appointment workflow.
package processor

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
	"github.com/batebc/backend-challenge/internal/processing"
	"github.com/batebc/backend-challenge/pkg/logging"
)

const workerName = "processor"

var tracer = otel.Tracer("appointments.worker.processor")

// snsEnvelope is the SNS notification wrapper SQS delivers when the
// queue is subscribed to the dispatch topic. Direct-to-queue dispatch
// (local runs) has no envelope, so Message may be empty.
type snsEnvelope struct {
	Message string `json:"Message"`
}

type dispatchPayload struct {
	AppointmentID string `json:"appointmentId"`
	InsuredID     string `json:"insuredId"`
	ScheduleID    int    `json:"scheduleId"`
	CountryISO    string `json:"countryISO"`
}

// Handler adapts SQS batches to the processing service with per-item
// failure reporting.
type Handler struct {
	service *processing.Service
	metrics *metrics.WorkflowMetrics
	logger  *logging.Logger
}

// NewHandler wires the batch handler. metrics may be nil.
func NewHandler(service *processing.Service, m *metrics.WorkflowMetrics, logger *logging.Logger) *Handler {
	if service == nil {
		panic("processor: processing service cannot be nil")
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

// Handle processes every record independently: one item's failure never
// aborts its siblings. Only retryable failures are reported back for
// redelivery; poison messages are logged and acknowledged.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	h.logger.Info("processing dispatch batch", "count", len(event.Records))

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
			h.logger.Error("appointment processing failed, item will be redelivered",
				"message_id", record.MessageId,
				"error", err,
			)
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		default:
			h.metrics.ObserveBatchItem(workerName, metrics.OutcomeDropped)
			h.logger.Warn("dropping unprocessable dispatch message",
				"message_id", record.MessageId,
				"error", err,
			)
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func (h *Handler) handleRecord(ctx context.Context, record events.SQSMessage) error {
	ctx, span := tracer.Start(ctx, "processor.handle_record")
	defer span.End()

	payload, err := decodeDispatch(record.Body)
	if err != nil {
		span.RecordError(err)
		return err
	}

	country, err := appointment.ParseCountry(payload.CountryISO)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(
		attribute.String("appointment.id", payload.AppointmentID),
		attribute.String("appointment.country", string(country)),
	)

	err = h.service.Process(ctx, processing.Input{
		AppointmentID: payload.AppointmentID,
		InsuredID:     payload.InsuredID,
		ScheduleID:    payload.ScheduleID,
		Country:       country,
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func decodeDispatch(body string) (dispatchPayload, error) {
	var envelope snsEnvelope
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return dispatchPayload{}, appointment.NewValidationError("malformed dispatch record: %v", err)
	}

	inner := envelope.Message
	if strings.TrimSpace(inner) == "" {
		inner = body
	}

	var payload dispatchPayload
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return dispatchPayload{}, appointment.NewValidationError("malformed dispatch message: %v", err)
	}
	if strings.TrimSpace(payload.AppointmentID) == "" {
		return dispatchPayload{}, appointment.NewValidationError("dispatch message missing appointmentId")
	}
	return payload, nil
}

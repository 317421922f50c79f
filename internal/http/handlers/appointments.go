package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/batebc/backend-challenge/internal/appointment"
	"github.com/batebc/backend-challenge/internal/observability/metrics"
	"github.com/batebc/backend-challenge/pkg/logging"
)

var tracer = otel.Tracer("appointments.http.api")

// workflowService is the slice of the appointment service the API uses.
type workflowService interface {
	Create(ctx context.Context, in appointment.CreateInput) (appointment.CreateOutput, error)
	List(ctx context.Context, insuredID string) (appointment.ListOutput, error)
}

type createRequest struct {
	InsuredID  string `json:"insuredId"`
	ScheduleID int    `json:"scheduleId"`
	CountryISO string `json:"countryISO"`
}

// AppointmentsHandler exposes the Create and List operations over HTTP.
type AppointmentsHandler struct {
	service workflowService
	metrics *metrics.WorkflowMetrics
	logger  *logging.Logger
}

// NewAppointmentsHandler wires the handler. metrics may be nil.
func NewAppointmentsHandler(service workflowService, m *metrics.WorkflowMetrics, logger *logging.Logger) *AppointmentsHandler {
	if service == nil {
		panic("handlers: workflow service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentsHandler{
		service: service,
		metrics: m,
		logger:  logger,
	}
}

// Create handles POST /appointments.
func (h *AppointmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.create_appointment")
	defer span.End()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode create request", "error", err)
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body must be valid JSON")
		return
	}

	out, err := h.service.Create(ctx, appointment.CreateInput{
		InsuredID:  req.InsuredID,
		ScheduleID: req.ScheduleID,
		CountryISO: req.CountryISO,
	})
	if err != nil {
		span.RecordError(err)
		h.respondError(w, err, "failed to create appointment")
		return
	}

	span.SetAttributes(attribute.String("appointment.id", out.AppointmentID))
	h.metrics.ObserveCreated(out.CountryISO)

	writeJSON(w, http.StatusCreated, envelope{
		Success: true,
		Data: createResponse{
			AppointmentID: out.AppointmentID,
			Status:        out.Status,
			Message:       "Appointment request is being processed",
		},
	})
}

type createResponse struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
	Message       string `json:"message"`
}

// ListByInsured handles GET /insured/{insuredId}/appointments.
func (h *AppointmentsHandler) ListByInsured(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "api.list_appointments")
	defer span.End()

	insuredID := chi.URLParam(r, "insuredId")
	span.SetAttributes(attribute.String("appointment.insured_id", insuredID))

	out, err := h.service.List(ctx, insuredID)
	if err != nil {
		span.RecordError(err)
		h.respondError(w, err, "failed to list appointments")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Success: true, Data: out})
}

// HealthCheck handles GET /health.
func (h *AppointmentsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AppointmentsHandler) respondError(w http.ResponseWriter, err error, internalMsg string) {
	var (
		validation *appointment.ValidationError
		domain     *appointment.DomainError
		notFound   *appointment.NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, validation.Msg)
	case errors.As(err, &domain):
		writeError(w, http.StatusBadRequest, codeBadRequest, domain.Msg)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound.Msg)
	default:
		h.logger.Error(internalMsg, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, internalMsg+", please try again later")
	}
}

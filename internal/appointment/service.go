package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/batebc/backend-challenge/pkg/logging"
)

// CreateInput carries the fields of an appointment request.
type CreateInput struct {
	InsuredID  string
	ScheduleID int
	CountryISO string
}

// CreateOutput is returned to the caller once the request is accepted.
// CountryISO carries the normalized country code, not the raw input.
type CreateOutput struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
	CountryISO    string `json:"countryISO"`
}

// Summary is the projection returned by List.
type Summary struct {
	AppointmentID string `json:"appointmentId"`
	ScheduleID    int    `json:"scheduleId"`
	CountryISO    string `json:"countryISO"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ListOutput is the result of listing an insured person's appointments.
type ListOutput struct {
	InsuredID    string    `json:"insuredId"`
	Appointments []Summary `json:"appointments"`
	Total        int       `json:"total"`
}

// Service orchestrates the appointment workflow steps that touch the
// fast store: Create, List and Finalize. Country processing lives in
// the processing package.
type Service struct {
	repo     Repository
	dispatch DispatchPublisher
	logger   *logging.Logger
}

// NewService wires the workflow service.
func NewService(repo Repository, dispatch DispatchPublisher, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointment: repository cannot be nil")
	}
	if dispatch == nil {
		panic("appointment: dispatch publisher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		dispatch: dispatch,
		logger:   logger,
	}
}

// Create mints a new appointment, persists it to the fast store and
// announces it on the dispatch channel. Persistence strictly precedes
// publish so a reader can always find an announced appointment. A
// publish failure after a successful save leaves the appointment
// pending until reconciliation; it is surfaced, never swallowed.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateOutput, error) {
	appt, err := New(uuid.NewString(), in.InsuredID, in.ScheduleID, in.CountryISO)
	if err != nil {
		return CreateOutput{}, err
	}

	if err := s.repo.Save(ctx, appt); err != nil {
		return CreateOutput{}, err
	}

	msg := DispatchMessage{
		AppointmentID: appt.ID,
		InsuredID:     appt.InsuredID,
		ScheduleID:    appt.ScheduleID,
		CountryISO:    string(appt.Country),
	}
	attributes := map[string]string{CountryAttribute: string(appt.Country)}
	if err := s.dispatch.Publish(ctx, msg, attributes); err != nil {
		s.logger.Error("appointment saved but dispatch publish failed; stuck pending until reconciliation",
			"appointment_id", appt.ID,
			"country", appt.Country,
			"error", err,
		)
		return CreateOutput{}, err
	}

	s.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"insured_id", appt.InsuredID,
		"country", appt.Country,
	)

	return CreateOutput{
		AppointmentID: appt.ID,
		Status:        string(appt.Status),
		CountryISO:    string(appt.Country),
	}, nil
}

// List returns the insured person's appointments, most recent first.
// The insured id is validated before any storage call.
func (s *Service) List(ctx context.Context, insuredID string) (ListOutput, error) {
	parsed, err := ParseInsuredID(insuredID)
	if err != nil {
		return ListOutput{}, err
	}

	appts, err := s.repo.FindByInsuredID(ctx, parsed)
	if err != nil {
		return ListOutput{}, err
	}

	summaries := make([]Summary, 0, len(appts))
	for _, appt := range appts {
		summaries = append(summaries, Summary{
			AppointmentID: appt.ID,
			ScheduleID:    appt.ScheduleID,
			CountryISO:    string(appt.Country),
			Status:        string(appt.Status),
			CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt:     appt.UpdatedAt.UTC().Format(time.RFC3339Nano),
		})
	}

	return ListOutput{
		InsuredID:    parsed,
		Appointments: summaries,
		Total:        len(summaries),
	}, nil
}

// Finalize transitions an appointment to completed after country
// processing has signalled completion.
func (s *Service) Finalize(ctx context.Context, id string) error {
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if appt == nil {
		return NewNotFoundError("Appointment not found: %s", id)
	}

	completed, err := appt.MarkCompleted()
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, completed); err != nil {
		return err
	}

	s.logger.Info("appointment completed",
		"appointment_id", completed.ID,
		"country", completed.Country,
	)
	return nil
}

package processing

import (
	"context"
	"time"

	"github.com/batebc/backend-challenge/internal/appointment"
	"github.com/batebc/backend-challenge/pkg/logging"
)

// completedAtLayout renders ISO-8601 with millisecond precision, the
// contract for completion events.
const completedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Input identifies one dispatched appointment to process.
type Input struct {
	AppointmentID string
	InsuredID     string
	ScheduleID    int
	Country       appointment.Country
}

// Service is the country processor: it writes the compliance row to the
// country's system of record and then announces completion. The write
// strictly precedes the publish; a failed write aborts the step.
type Service struct {
	stores      *StoreSet
	completions CompletionPublisher
	logger      *logging.Logger
	now         func() time.Time
}

// NewService wires the processing service with the per-country store
// registry built at process start.
func NewService(stores *StoreSet, completions CompletionPublisher, logger *logging.Logger) *Service {
	if stores == nil {
		panic("processing: store set cannot be nil")
	}
	if completions == nil {
		panic("processing: completion publisher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		stores:      stores,
		completions: completions,
		logger:      logger,
		now:         time.Now,
	}
}

// Process handles one dispatched appointment. Re-running for the same
// id after a publish failure re-inserts the row; deduplication, if any,
// belongs to the store.
func (s *Service) Process(ctx context.Context, in Input) error {
	store, err := s.stores.For(in.Country)
	if err != nil {
		return err
	}

	processedAt := s.now().UTC()
	rec := Record{
		AppointmentID: in.AppointmentID,
		InsuredID:     in.InsuredID,
		ScheduleID:    in.ScheduleID,
		Country:       in.Country,
		CreatedAt:     processedAt,
	}
	if err := store.Save(ctx, rec); err != nil {
		return err
	}

	event := CompletionEvent{
		AppointmentID: in.AppointmentID,
		InsuredID:     in.InsuredID,
		ScheduleID:    in.ScheduleID,
		CountryISO:    string(in.Country),
		CompletedAt:   s.now().UTC().Format(completedAtLayout),
	}
	if err := s.completions.PublishCompleted(ctx, event); err != nil {
		s.logger.Error("system-of-record row saved but completion publish failed",
			"appointment_id", in.AppointmentID,
			"country", in.Country,
			"error", err,
		)
		return err
	}

	s.logger.Info("appointment processed",
		"appointment_id", in.AppointmentID,
		"country", in.Country,
	)
	return nil
}

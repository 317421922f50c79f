package processing

import "context"

// CompletionEvent signals that country-specific processing finished.
// CompletedAt is ISO-8601 with millisecond precision.
type CompletionEvent struct {
	AppointmentID string `json:"appointmentId"`
	InsuredID     string `json:"insuredId"`
	ScheduleID    int    `json:"scheduleId"`
	CountryISO    string `json:"countryISO"`
	CompletedAt   string `json:"completedAt"`
}

// CompletionPublisher is the completion-event gateway. Implementations
// wrap publish failures in appointment.MessagingError.
type CompletionPublisher interface {
	PublishCompleted(ctx context.Context, event CompletionEvent) error
}

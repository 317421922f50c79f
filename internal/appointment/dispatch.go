package appointment

import "context"

// CountryAttribute is the routing attribute carried alongside every
// dispatch message so per-country consumers can filter without
// deserializing the body.
const CountryAttribute = "countryISO"

// DispatchMessage is the fan-out payload announcing a newly created
// appointment to country-specific processing.
type DispatchMessage struct {
	AppointmentID string `json:"appointmentId"`
	InsuredID     string `json:"insuredId"`
	ScheduleID    int    `json:"scheduleId"`
	CountryISO    string `json:"countryISO"`
}

// DispatchPublisher is the dispatch gateway. Implementations wrap
// publish failures in MessagingError.
type DispatchPublisher interface {
	Publish(ctx context.Context, msg DispatchMessage, attributes map[string]string) error
}

package appointment

import "context"

// Repository is the fast-store gateway used for all reads and for
// tracking appointment status. Implementations wrap storage failures in
// RepositoryError; retry policy belongs to the triggering transport.
type Repository interface {
	// Save persists a newly created appointment.
	Save(ctx context.Context, appt Appointment) error

	// FindByID loads one appointment. Absence is not an error: the
	// result is (nil, nil) when no appointment exists for the id.
	FindByID(ctx context.Context, id string) (*Appointment, error)

	// FindByInsuredID returns the insured person's appointments, most
	// recent first.
	FindByInsuredID(ctx context.Context, insuredID string) ([]Appointment, error)

	// Update replaces the mutable fields (status, updatedAt) of an
	// existing appointment.
	Update(ctx context.Context, appt Appointment) error
}

package appointment

import (
	"regexp"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment. The only legal
// transition is pending -> completed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus normalizes and validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", NewValidationError("status must be either pending or completed, got %q", raw)
	}
}

// Country identifies which country processor and system-of-record
// partition handles an appointment.
type Country string

const (
	CountryPE Country = "PE"
	CountryCL Country = "CL"
)

// ParseCountry normalizes and validates a raw country code.
func ParseCountry(raw string) (Country, error) {
	switch Country(strings.ToUpper(strings.TrimSpace(raw))) {
	case CountryPE:
		return CountryPE, nil
	case CountryCL:
		return CountryCL, nil
	default:
		return "", NewValidationError("countryISO must be either PE or CL, got %q", raw)
	}
}

var insuredIDPattern = regexp.MustCompile(`^\d{5}$`)

// ParseInsuredID validates the zero-padded 5-digit insured person id.
func ParseInsuredID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError("insuredId is required")
	}
	if !insuredIDPattern.MatchString(trimmed) {
		return "", NewValidationError("insuredId must be exactly 5 digits, got %q", raw)
	}
	return trimmed, nil
}

// Appointment is the workflow's unit of work. Values are immutable:
// every transition returns a new snapshot instead of mutating in place.
type Appointment struct {
	ID         string
	InsuredID  string
	ScheduleID int
	Country    Country
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New constructs a pending appointment, enforcing every field invariant
// at construction time.
func New(id, insuredID string, scheduleID int, country string) (Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return Appointment{}, NewValidationError("appointment id is required")
	}
	parsedInsured, err := ParseInsuredID(insuredID)
	if err != nil {
		return Appointment{}, err
	}
	if scheduleID <= 0 {
		return Appointment{}, NewValidationError("scheduleId must be a positive integer, got %d", scheduleID)
	}
	parsedCountry, err := ParseCountry(country)
	if err != nil {
		return Appointment{}, err
	}

	now := time.Now().UTC()
	return Appointment{
		ID:         strings.TrimSpace(id),
		InsuredID:  parsedInsured,
		ScheduleID: scheduleID,
		Country:    parsedCountry,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Reconstitute rebuilds an appointment from persisted fields, applying
// the same validation as New so corrupted storage surfaces immediately.
func Reconstitute(id, insuredID string, scheduleID int, country, status string, createdAt, updatedAt time.Time) (Appointment, error) {
	if strings.TrimSpace(id) == "" {
		return Appointment{}, NewValidationError("appointment id is required")
	}
	parsedInsured, err := ParseInsuredID(insuredID)
	if err != nil {
		return Appointment{}, err
	}
	if scheduleID <= 0 {
		return Appointment{}, NewValidationError("scheduleId must be a positive integer, got %d", scheduleID)
	}
	parsedCountry, err := ParseCountry(country)
	if err != nil {
		return Appointment{}, err
	}
	parsedStatus, err := ParseStatus(status)
	if err != nil {
		return Appointment{}, err
	}
	if createdAt.IsZero() || updatedAt.IsZero() {
		return Appointment{}, NewValidationError("createdAt and updatedAt are required")
	}

	return Appointment{
		ID:         strings.TrimSpace(id),
		InsuredID:  parsedInsured,
		ScheduleID: scheduleID,
		Country:    parsedCountry,
		Status:     parsedStatus,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// MarkCompleted returns a completed copy of the appointment. Completing
// twice is illegal: status is monotonic and never regresses.
func (a Appointment) MarkCompleted() (Appointment, error) {
	if a.Status == StatusCompleted {
		return Appointment{}, NewDomainError("appointment %s is already completed", a.ID)
	}

	completed := a
	completed.Status = StatusCompleted
	completed.UpdatedAt = time.Now().UTC()
	return completed, nil
}

// IsPending reports whether the appointment is awaiting processing.
func (a Appointment) IsPending() bool { return a.Status == StatusPending }

// IsCompleted reports whether the appointment finished the workflow.
func (a Appointment) IsCompleted() bool { return a.Status == StatusCompleted }

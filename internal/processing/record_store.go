package processing

import (
	"context"
	"time"

	"github.com/batebc/backend-challenge/internal/appointment"
)

// Record is the compliance row written to a country's system of record.
// There is no status field: the row only attests that processing
// occurred, and CreatedAt marks processing time, not request time.
type Record struct {
	AppointmentID string
	InsuredID     string
	ScheduleID    int
	Country       appointment.Country
	CreatedAt     time.Time
}

// RecordStore is the system-of-record gateway. Save is a pure insert;
// duplicate rows under redelivery are the store's concern, not the
// workflow's.
type RecordStore interface {
	Save(ctx context.Context, rec Record) error
}

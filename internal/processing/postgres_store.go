package processing

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/batebc/backend-challenge/internal/appointment"
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore writes system-of-record rows to one country's relational
// database.
type PostgresStore struct {
	db db
}

var _ RecordStore = (*PostgresStore)(nil)

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(db db) *PostgresStore {
	if db == nil {
		panic("processing: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// Save inserts one row.
func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO appointments (appointment_id, insured_id, schedule_id, country_iso, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.Exec(ctx, query,
		rec.AppointmentID,
		rec.InsuredID,
		rec.ScheduleID,
		string(rec.Country),
		rec.CreatedAt,
	)
	if err != nil {
		return appointment.NewRepositoryError("insert system-of-record row for "+rec.AppointmentID, err)
	}
	return nil
}

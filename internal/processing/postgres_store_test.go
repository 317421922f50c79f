package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batebc/backend-challenge/internal/appointment"
)

func TestPostgresStoreSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("appt-1", "00123", 100, "PE", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	store := NewPostgresStore(mock)
	err = store.Save(context.Background(), Record{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		Country:       appointment.CountryPE,
		CreatedAt:     created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	store := NewPostgresStore(mock)
	err = store.Save(context.Background(), Record{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		Country:       appointment.CountryCL,
		CreatedAt:     time.Now().UTC(),
	})
	require.Error(t, err)

	var repoErr *appointment.RepositoryError
	assert.ErrorAs(t, err, &repoErr)
	assert.True(t, appointment.Retryable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

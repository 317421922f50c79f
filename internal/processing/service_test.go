package processing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batebc/backend-challenge/internal/appointment"
)

type mockStore struct {
	calls   *[]string
	records []Record
	saveErr error
}

func (m *mockStore) Save(ctx context.Context, rec Record) error {
	*m.calls = append(*m.calls, "save")
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records = append(m.records, rec)
	return nil
}

type mockCompletions struct {
	calls      *[]string
	events     []CompletionEvent
	publishErr error
}

func (m *mockCompletions) PublishCompleted(ctx context.Context, event CompletionEvent) error {
	*m.calls = append(*m.calls, "publishCompleted")
	if m.publishErr != nil {
		return m.publishErr
	}
	m.events = append(m.events, event)
	return nil
}

func TestProcessSavesBeforePublishing(t *testing.T) {
	var calls []string
	store := &mockStore{calls: &calls}
	completions := &mockCompletions{calls: &calls}

	stores := NewStoreSet()
	stores.Register(appointment.CountryPE, store)

	svc := NewService(stores, completions, nil)
	fixed := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	err := svc.Process(context.Background(), Input{
		AppointmentID: "order-test",
		InsuredID:     "00111",
		ScheduleID:    111,
		Country:       appointment.CountryPE,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"save", "publishCompleted"}, calls)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "order-test", rec.AppointmentID)
	assert.Equal(t, "00111", rec.InsuredID)
	assert.Equal(t, 111, rec.ScheduleID)
	assert.Equal(t, appointment.CountryPE, rec.Country)
	assert.True(t, rec.CreatedAt.Equal(fixed))

	require.Len(t, completions.events, 1)
	event := completions.events[0]
	assert.Equal(t, "order-test", event.AppointmentID)
	assert.Equal(t, "PE", event.CountryISO)
	assert.Equal(t, "2025-06-01T10:30:00.000Z", event.CompletedAt)
}

func TestProcessSaveFailureAbortsPublish(t *testing.T) {
	var calls []string
	store := &mockStore{
		calls:   &calls,
		saveErr: appointment.NewRepositoryError("insert system-of-record row", errors.New("connection refused")),
	}
	completions := &mockCompletions{calls: &calls}

	stores := NewStoreSet()
	stores.Register(appointment.CountryCL, store)

	svc := NewService(stores, completions, nil)
	err := svc.Process(context.Background(), Input{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		Country:       appointment.CountryCL,
	})
	require.Error(t, err)

	var repoErr *appointment.RepositoryError
	assert.ErrorAs(t, err, &repoErr)
	assert.Equal(t, []string{"save"}, calls, "no completion event after a failed write")
}

func TestProcessPublishFailureIsSurfaced(t *testing.T) {
	var calls []string
	store := &mockStore{calls: &calls}
	completions := &mockCompletions{
		calls:      &calls,
		publishErr: appointment.NewMessagingError("publish completion event", errors.New("bus unavailable")),
	}

	stores := NewStoreSet()
	stores.Register(appointment.CountryPE, store)

	svc := NewService(stores, completions, nil)
	err := svc.Process(context.Background(), Input{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		Country:       appointment.CountryPE,
	})
	require.Error(t, err)

	var msgErr *appointment.MessagingError
	assert.ErrorAs(t, err, &msgErr)
	assert.True(t, appointment.Retryable(err), "redelivery re-inserts and retries the publish")
	assert.Len(t, store.records, 1)
}

func TestProcessUnregisteredCountry(t *testing.T) {
	var calls []string
	completions := &mockCompletions{calls: &calls}

	svc := NewService(NewStoreSet(), completions, nil)
	err := svc.Process(context.Background(), Input{
		AppointmentID: "appt-1",
		InsuredID:     "00123",
		ScheduleID:    100,
		Country:       appointment.CountryCL,
	})
	require.Error(t, err)

	var repoErr *appointment.RepositoryError
	assert.ErrorAs(t, err, &repoErr)
	assert.True(t, appointment.Retryable(err), "a missing store is a deployment problem, not a poison message")
	assert.Empty(t, calls)
}

package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// InMemoryRepository keeps appointments in process memory. It backs
// local API runs without AWS and the workflow tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]Appointment
}

var _ Repository = (*InMemoryRepository)(nil)

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items: make(map[string]Appointment),
	}
}

// Save stores a copy of the appointment.
func (r *InMemoryRepository) Save(ctx context.Context, appt Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[appt.ID] = appt
	return nil
}

// FindByID returns the appointment or (nil, nil) when absent.
func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &appt, nil
}

// FindByInsuredID returns the person's appointments, most recent first.
func (r *InMemoryRepository) FindByInsuredID(ctx context.Context, insuredID string) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var appts []Appointment
	for _, appt := range r.items {
		if appt.InsuredID == insuredID {
			appts = append(appts, appt)
		}
	}
	sort.Slice(appts, func(i, j int) bool {
		return appts[i].CreatedAt.After(appts[j].CreatedAt)
	})
	return appts, nil
}

// Update replaces an existing appointment.
func (r *InMemoryRepository) Update(ctx context.Context, appt Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[appt.ID]; !ok {
		return NewRepositoryError("update appointment "+appt.ID, errUnknownAppointment)
	}
	r.items[appt.ID] = appt
	return nil
}

var errUnknownAppointment = errors.New("appointment does not exist")

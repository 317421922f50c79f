package processing

import (
	"errors"

	"github.com/batebc/backend-challenge/internal/appointment"
)

// StoreSet is the explicit per-country resource pool: one RecordStore
// per country, registered once at process start and passed by reference
// into the processing service. No hidden singletons.
type StoreSet struct {
	stores map[appointment.Country]RecordStore
}

// NewStoreSet creates an empty registry.
func NewStoreSet() *StoreSet {
	return &StoreSet{
		stores: make(map[appointment.Country]RecordStore),
	}
}

// Register binds a country to its system-of-record store.
func (s *StoreSet) Register(country appointment.Country, store RecordStore) {
	if store == nil {
		panic("processing: record store cannot be nil")
	}
	s.stores[country] = store
}

// Countries lists the registered countries.
func (s *StoreSet) Countries() []appointment.Country {
	countries := make([]appointment.Country, 0, len(s.stores))
	for country := range s.stores {
		countries = append(countries, country)
	}
	return countries
}

// For returns the store serving the given country. A missing store is a
// deployment problem, reported as a repository failure so the batch item
// is redelivered once configuration is fixed.
func (s *StoreSet) For(country appointment.Country) (RecordStore, error) {
	store, ok := s.stores[country]
	if !ok {
		return nil, appointment.NewRepositoryError(
			"resolve system-of-record store for "+string(country),
			errors.New("no store registered for country"),
		)
	}
	return store, nil
}

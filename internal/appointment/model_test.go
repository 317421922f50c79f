package appointment

import (
	"errors"
	"testing"
	"time"
)

func TestNewValidAppointment(t *testing.T) {
	appt, err := New("appt-1", "00123", 100, "PE")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if appt.Status != StatusPending {
		t.Errorf("expected pending status, got %s", appt.Status)
	}
	if appt.Country != CountryPE {
		t.Errorf("expected country PE, got %s", appt.Country)
	}
	if appt.CreatedAt.IsZero() || !appt.CreatedAt.Equal(appt.UpdatedAt) {
		t.Error("expected createdAt == updatedAt at creation")
	}
	if !appt.IsPending() || appt.IsCompleted() {
		t.Error("new appointment must be pending")
	}
}

func TestNewNormalizesCountry(t *testing.T) {
	appt, err := New("appt-1", "00123", 100, " cl ")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if appt.Country != CountryCL {
		t.Errorf("expected normalized country CL, got %s", appt.Country)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		insuredID  string
		scheduleID int
		country    string
	}{
		{"empty id", "", "00123", 100, "PE"},
		{"short insured id", "appt-1", "1234", 100, "PE"},
		{"long insured id", "appt-1", "123456", 100, "PE"},
		{"non-numeric insured id", "appt-1", "abcde", 100, "PE"},
		{"empty insured id", "appt-1", "", 100, "PE"},
		{"zero schedule id", "appt-1", "00123", 0, "PE"},
		{"negative schedule id", "appt-1", "00123", -5, "PE"},
		{"unknown country", "appt-1", "00123", 100, "BR"},
		{"empty country", "appt-1", "00123", 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.insuredID, tt.scheduleID, tt.country)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

func TestReconstituteRoundTrip(t *testing.T) {
	original, err := New("appt-1", "00123", 100, "PE")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	rebuilt, err := Reconstitute(
		original.ID,
		original.InsuredID,
		original.ScheduleID,
		string(original.Country),
		string(original.Status),
		original.CreatedAt,
		original.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Reconstitute returned error: %v", err)
	}

	if rebuilt != original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", rebuilt, original)
	}
}

func TestReconstituteRejectsCorruptedStorage(t *testing.T) {
	now := time.Now().UTC()

	if _, err := Reconstitute("appt-1", "00123", 100, "PE", "archived", now, now); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := Reconstitute("appt-1", "123", 100, "PE", "pending", now, now); err == nil {
		t.Error("expected error for corrupted insured id")
	}
	if _, err := Reconstitute("appt-1", "00123", 100, "PE", "pending", time.Time{}, now); err == nil {
		t.Error("expected error for zero createdAt")
	}
}

func TestMarkCompleted(t *testing.T) {
	appt, err := New("appt-1", "00123", 100, "PE")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	completed, err := appt.MarkCompleted()
	if err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}

	if completed.Status != StatusCompleted {
		t.Errorf("expected completed status, got %s", completed.Status)
	}
	if completed.UpdatedAt.Before(appt.UpdatedAt) {
		t.Error("updatedAt must never decrease")
	}
	if !completed.CreatedAt.Equal(appt.CreatedAt) {
		t.Error("createdAt must not change on transition")
	}

	// Value semantics: the original snapshot is untouched.
	if appt.Status != StatusPending {
		t.Errorf("original appointment mutated, status is %s", appt.Status)
	}
}

func TestMarkCompletedTwiceFails(t *testing.T) {
	appt, err := New("appt-1", "00123", 100, "CL")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	completed, err := appt.MarkCompleted()
	if err != nil {
		t.Fatalf("first MarkCompleted returned error: %v", err)
	}

	_, err = completed.MarkCompleted()
	if err == nil {
		t.Fatal("expected error on second completion")
	}
	var domain *DomainError
	if !errors.As(err, &domain) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}

	// The first result is unaffected by the failed second call.
	if completed.Status != StatusCompleted {
		t.Errorf("completed snapshot changed, status is %s", completed.Status)
	}
}

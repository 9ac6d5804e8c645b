package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const maxNotesLength = 500

// FieldError names the offending field so the caller can point the user at it.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// BookingInput holds the raw booking fields as gathered by the caller.
type BookingInput struct {
	DoctorID  string
	PatientID string
	StartTime time.Time
	Notes     string
}

// ValidateBooking checks a booking request before it reaches the store.
// now is supplied by the caller's clock so the rule stays a pure function.
func ValidateBooking(in BookingInput, now time.Time) error {
	if strings.TrimSpace(in.DoctorID) == "" {
		return &FieldError{Field: "doctor_id", Reason: "a doctor must be selected"}
	}
	if strings.TrimSpace(in.PatientID) == "" {
		return &FieldError{Field: "patient_id", Reason: "a patient must be selected"}
	}
	if !in.StartTime.After(now) {
		return &FieldError{Field: "start_time", Reason: "must be in the future"}
	}
	return ValidateNotes(in.Notes)
}

// ValidateNotes enforces the notes length cap. Both creating and rescheduling
// an appointment accept notes, so both paths run this.
func ValidateNotes(notes string) error {
	if len(notes) > maxNotesLength {
		return &FieldError{Field: "notes", Reason: fmt.Sprintf("must be at most %d characters", maxNotesLength)}
	}
	return nil
}

// MedicineInput is the parsed result of a medicine entry form.
type MedicineInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// ParseMedicineInput validates the raw medicine-entry fields and parses the
// numeric ones. Price must be a positive decimal, quantity a non-negative
// integer.
func ParseMedicineInput(name, category, price, quantity string) (MedicineInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return MedicineInput{}, &FieldError{Field: "name", Reason: "must not be blank"}
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return MedicineInput{}, &FieldError{Field: "category", Reason: "must not be blank"}
	}

	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil || p <= 0 {
		return MedicineInput{}, &FieldError{Field: "price", Reason: "must be a positive decimal"}
	}

	q, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || q < 0 {
		return MedicineInput{}, &FieldError{Field: "quantity", Reason: "must be a non-negative integer"}
	}

	return MedicineInput{
		Name:     name,
		Category: category,
		Price:    p,
		Quantity: q,
	}, nil
}

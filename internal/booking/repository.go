package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all persistence interactions needed by the service.
// SlotTaken and CreateAppointment are only called inside the per-slot critical
// section, so the backend does not need cross-statement isolation of its own.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// SlotTaken reports whether the doctor already has an appointment in the
	// same date-and-hour slot as at, ignoring the appointment with id exclude
	// (uuid.Nil to exclude nothing).
	SlotTaken(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error)

	CreateAppointment(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error)
	UpdateAppointment(ctx context.Context, id uuid.UUID, at time.Time, notes *string) (*Appointment, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	// ListAppointments joins doctor and patient display fields. An empty
	// filter returns everything; otherwise the filter matches doctor name,
	// patient name, or specialty, case-insensitively. Ordered by start time
	// descending.
	ListAppointments(ctx context.Context, filter string) ([]AppointmentDetail, error)

	InsertEvent(ctx context.Context, ev EventLog) error
}

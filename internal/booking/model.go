package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID        uuid.UUID
	FullName  string
	Specialty *string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID        uuid.UUID
	FullName  string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Appointment struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	StartTime time.Time
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AppointmentDetail struct {
	Appointment
	DoctorName      string
	DoctorSpecialty string
	PatientName     string
	PatientEmail    string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// SlotKey identifies the unit of booking exclusivity: one doctor, one UTC
// calendar date, one UTC hour. Minutes, seconds, and the offset the caller
// expressed the time in do not matter.
func SlotKey(doctorID uuid.UUID, at time.Time) string {
	utc := at.UTC()
	return fmt.Sprintf("slot:%s:%s:%02d", doctorID, utc.Format("2006-01-02"), utc.Hour())
}

// SameSlot reports whether two start times fall in the same UTC date-and-hour
// slot, whatever offsets they arrive with.
func SameSlot(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.YearDay() == bu.YearDay() && au.Hour() == bu.Hour()
}

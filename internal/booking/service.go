package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/carepoint/scheduling-stock-service/internal/clock"
	"github.com/carepoint/scheduling-stock-service/internal/events"
	"github.com/carepoint/scheduling-stock-service/internal/lock"
)

var (
	ErrSlotTaken          = errors.New("doctor already has an appointment in this slot")
	ErrSlotBusy           = errors.New("slot is currently being booked, please retry")
	ErrPastDate           = errors.New("appointment start time must be in the future")
	ErrDoctorNotAvailable = errors.New("doctor is not available for booking")
)

type Service struct {
	repo      Repository
	locker    lock.Locker
	clk       clock.Clock
	publisher events.Publisher
}

func NewService(repo Repository, locker lock.Locker, clk clock.Clock, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		locker:    locker,
		clk:       clk,
		publisher: publisher,
	}
}

// CheckAvailability reports whether the doctor's date-and-hour slot containing
// at is free. Evaluated against the live collection at call time; a true
// result can be stale by the time a booking lands, which is why Book re-checks
// inside the slot lock.
func (s *Service) CheckAvailability(ctx context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	taken, err := s.repo.SlotTaken(ctx, doctorID, at, uuid.Nil)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return !taken, nil
}

// Book reserves a slot for a patient. The conflict check and the insert run
// under a per-slot lock so concurrent requests for the same doctor and hour
// cannot both succeed.
func (s *Service) Book(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes string) (*Appointment, error) {
	if !at.After(s.clk.Now()) {
		return nil, ErrPastDate
	}

	doctor, err := s.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}
	if !doctor.Available {
		return nil, ErrDoctorNotAvailable
	}

	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	var created *Appointment

	err = s.locker.WithKeyLock(ctx, SlotKey(doctorID, at), func(lockCtx context.Context) error {
		taken, err := s.repo.SlotTaken(lockCtx, doctorID, at, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		appt, err := s.repo.CreateAppointment(lockCtx, doctorID, patientID, at, notesOrNil(notes))
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, events.TypeAppointmentBooked, map[string]any{
			"doctor_id":  doctorID.String(),
			"patient_id": patientID.String(),
			"start_time": at,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAppointmentBooked, created.DoctorID.String(), created)

	return created, nil
}

// Update moves an appointment to a new start time and replaces its notes. The
// conflict check runs against all of the doctor's other appointments, under
// the lock of the target slot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, at time.Time, notes string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	var updated *Appointment

	err = s.locker.WithKeyLock(ctx, SlotKey(appt.DoctorID, at), func(lockCtx context.Context) error {
		taken, err := s.repo.SlotTaken(lockCtx, appt.DoctorID, at, id)
		if err != nil {
			return fmt.Errorf("check slot: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		updated, err = s.repo.UpdateAppointment(lockCtx, id, at, notesOrNil(notes))
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		s.logEvent(lockCtx, id, events.TypeAppointmentUpdated, map[string]any{
			"start_time": at,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	s.publisher.Publish(ctx, events.TypeAppointmentUpdated, updated.DoctorID.String(), updated)

	return updated, nil
}

// Delete removes an appointment. A missing id is a reported error, not a
// silent success.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return err
		}
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.logEvent(ctx, id, events.TypeAppointmentCancelled, map[string]any{})
	s.publisher.Publish(ctx, events.TypeAppointmentCancelled, id.String(), map[string]string{"id": id.String()})

	return nil
}

// List returns appointments joined with doctor and patient display fields.
func (s *Service) List(ctx context.Context, filter string) ([]AppointmentDetail, error) {
	details, err := s.repo.ListAppointments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return details, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}

func notesOrNil(notes string) *string {
	if notes == "" {
		return nil
	}
	return &notes
}

package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepoint/scheduling-stock-service/internal/clock"
	"github.com/carepoint/scheduling-stock-service/internal/events"
	"github.com/carepoint/scheduling-stock-service/internal/lock"
)

var testNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *MemRepository
	svc     *Service
	doctor  Doctor
	doctor2 Doctor
	offDuty Doctor
	patient Patient
	other   Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := NewMemRepository()

	cardiology := "Cardiology"
	dermatology := "Dermatology"

	f := &fixture{
		repo: repo,
		doctor: Doctor{
			ID:        uuid.New(),
			FullName:  "Grace Obi",
			Specialty: &cardiology,
			Available: true,
		},
		doctor2: Doctor{
			ID:        uuid.New(),
			FullName:  "Mateo Silva",
			Specialty: &dermatology,
			Available: true,
		},
		offDuty: Doctor{
			ID:        uuid.New(),
			FullName:  "Ines Fournier",
			Available: false,
		},
		patient: Patient{
			ID:       uuid.New(),
			FullName: "Aiko Tanaka",
		},
		other: Patient{
			ID:       uuid.New(),
			FullName: "Omar Haddad",
		},
	}

	repo.PutDoctor(f.doctor)
	repo.PutDoctor(f.doctor2)
	repo.PutDoctor(f.offDuty)
	repo.PutPatient(f.patient)
	repo.PutPatient(f.other)

	f.svc = NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())
	return f
}

func TestBook(t *testing.T) {
	ctx := context.Background()
	slot := testNow.Add(25 * time.Hour) // 2025-05-02 10:00

	t.Run("books a free slot", func(t *testing.T) {
		f := newFixture(t)

		appt, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "first visit")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, appt.ID)
		assert.Equal(t, f.doctor.ID, appt.DoctorID)
		assert.Equal(t, f.patient.ID, appt.PatientID)
		require.NotNil(t, appt.Notes)
		assert.Equal(t, "first visit", *appt.Notes)
	})

	t.Run("rejects a second booking in the same hour for any patient", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
		require.NoError(t, err)

		_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, slot.Add(30*time.Minute), "")
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("different hours book independently", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
		require.NoError(t, err)

		_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, slot.Add(time.Hour), "")
		assert.NoError(t, err)
	})

	t.Run("different doctors share an hour", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
		require.NoError(t, err)

		_, err = f.svc.Book(ctx, f.doctor2.ID, f.patient.ID, slot, "")
		assert.NoError(t, err)
	})

	t.Run("rejects past and present start times regardless of conflicts", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow, "")
		assert.ErrorIs(t, err, ErrPastDate)

		_, err = f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow.Add(-time.Hour), "")
		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("rejects unknown doctor and patient", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, uuid.New(), f.patient.ID, slot, "")
		assert.ErrorIs(t, err, ErrDoctorNotFound)

		_, err = f.svc.Book(ctx, f.doctor.ID, uuid.New(), slot, "")
		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("rejects a doctor flagged unavailable", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.offDuty.ID, f.patient.ID, slot, "")
		assert.ErrorIs(t, err, ErrDoctorNotAvailable)
	})

	t.Run("empty notes stored as absent", func(t *testing.T) {
		f := newFixture(t)

		appt, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
		require.NoError(t, err)
		assert.Nil(t, appt.Notes)
	})

	t.Run("records a booked event", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
		require.NoError(t, err)

		evs := f.repo.Events()
		require.Len(t, evs, 1)
		assert.Equal(t, events.TypeAppointmentBooked, evs[0].EventType)
	})
}

// Slot granularity is the hour: 10:00 and 10:59 collide, 10:59 and 11:00 do not.
func TestBookHourGranularity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tenSharp := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	tenFiftyNine := time.Date(2025, 5, 2, 10, 59, 0, 0, time.UTC)
	elevenSharp := time.Date(2025, 5, 2, 11, 0, 0, 0, time.UTC)

	_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, tenSharp, "")
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, tenFiftyNine, "")
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, elevenSharp, "")
	assert.NoError(t, err)
}

// The slot is a physical UTC hour, not a wall-clock reading: the same instant
// expressed in different offsets must collide, and a different instant whose
// local hour happens to match must not.
func TestBookMixedOffsets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	plusTwo := time.FixedZone("UTC+2", 2*60*60)

	utcSlot := time.Date(2025, 5, 2, 8, 15, 0, 0, time.UTC)
	sameHourOffset := time.Date(2025, 5, 2, 10, 20, 0, 0, plusTwo) // 08:20 UTC
	localEight := time.Date(2025, 5, 2, 8, 10, 0, 0, plusTwo)      // 06:10 UTC

	assert.True(t, SameSlot(utcSlot, sameHourOffset))
	assert.False(t, SameSlot(utcSlot, localEight))
	assert.Equal(t, SlotKey(f.doctor.ID, utcSlot), SlotKey(f.doctor.ID, sameHourOffset))

	_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, utcSlot, "")
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, sameHourOffset, "")
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, localEight, "")
	assert.NoError(t, err)
}

func TestBookConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	slot := testNow.Add(48 * time.Hour)

	const attempts = 32

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrSlotTaken)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes, "exactly one booking must win the slot")
	assert.Equal(t, attempts-1, conflicts)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("moves an appointment to a free slot", func(t *testing.T) {
		f := newFixture(t)

		appt, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow.Add(25*time.Hour), "old")
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, appt.ID, testNow.Add(27*time.Hour), "new notes")
		require.NoError(t, err)
		assert.True(t, updated.StartTime.Equal(testNow.Add(27*time.Hour)))
		require.NotNil(t, updated.Notes)
		assert.Equal(t, "new notes", *updated.Notes)
	})

	t.Run("rejects a move into an occupied slot", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow.Add(25*time.Hour), "")
		require.NoError(t, err)

		appt2, err := f.svc.Book(ctx, f.doctor.ID, f.other.ID, testNow.Add(27*time.Hour), "")
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, appt2.ID, testNow.Add(25*time.Hour), "")
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("an appointment does not conflict with itself", func(t *testing.T) {
		f := newFixture(t)

		appt, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow.Add(25*time.Hour), "")
		require.NoError(t, err)

		// Same slot, later minute.
		_, err = f.svc.Update(ctx, appt.ID, testNow.Add(25*time.Hour+30*time.Minute), "")
		assert.NoError(t, err)
	})

	t.Run("missing id is reported", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(ctx, uuid.New(), testNow.Add(25*time.Hour), "")
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	appt, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, testNow.Add(25*time.Hour), "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, appt.ID))

	// Deleting again reports the absence instead of succeeding silently.
	assert.ErrorIs(t, f.svc.Delete(ctx, appt.ID), ErrAppointmentNotFound)

	// The slot is free again.
	free, err := f.svc.CheckAvailability(ctx, f.doctor.ID, testNow.Add(25*time.Hour))
	require.NoError(t, err)
	assert.True(t, free)
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	slot := testNow.Add(25 * time.Hour)

	free, err := f.svc.CheckAvailability(ctx, f.doctor.ID, slot)
	require.NoError(t, err)
	assert.True(t, free)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.patient.ID, slot, "")
	require.NoError(t, err)

	free, err = f.svc.CheckAvailability(ctx, f.doctor.ID, slot.Add(45*time.Minute))
	require.NoError(t, err)
	assert.False(t, free)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	early := testNow.Add(25 * time.Hour)
	late := testNow.Add(49 * time.Hour)

	_, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, early, "")
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, f.doctor2.ID, f.other.ID, late, "")
	require.NoError(t, err)

	t.Run("empty filter returns all, newest start first", func(t *testing.T) {
		details, err := f.svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, details, 2)
		assert.True(t, details[0].StartTime.Equal(late))
		assert.True(t, details[1].StartTime.Equal(early))
	})

	t.Run("filters on doctor name case-insensitively", func(t *testing.T) {
		details, err := f.svc.List(ctx, "grace")
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Grace Obi", details[0].DoctorName)
	})

	t.Run("filters on patient name", func(t *testing.T) {
		details, err := f.svc.List(ctx, "haddad")
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Omar Haddad", details[0].PatientName)
	})

	t.Run("filters on specialty", func(t *testing.T) {
		details, err := f.svc.List(ctx, "DERMA")
		require.NoError(t, err)
		require.Len(t, details, 1)
		assert.Equal(t, "Dermatology", details[0].DoctorSpecialty)
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		details, err := f.svc.List(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, details)
	})
}

// The walkthrough from the booking form: 10:00 books, 10:30 conflicts, 11:00 books.
func TestBookScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	first, err := f.svc.Book(ctx, f.doctor.ID, f.patient.ID, day.Add(10*time.Hour), "")
	require.NoError(t, err)

	_, err = f.svc.Book(ctx, f.doctor.ID, f.other.ID, day.Add(10*time.Hour+30*time.Minute), "")
	require.ErrorIs(t, err, ErrSlotTaken)

	second, err := f.svc.Book(ctx, f.doctor.ID, f.other.ID, day.Add(11*time.Hour), "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

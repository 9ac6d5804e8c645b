package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carepoint/scheduling-stock-service/internal/clock"
	"github.com/carepoint/scheduling-stock-service/internal/events"
	"github.com/carepoint/scheduling-stock-service/internal/lock"
)

// mockRepository delegates each call to a function field so a test can make
// any single operation fail.
type mockRepository struct {
	getDoctor   func(ctx context.Context, id uuid.UUID) (*Doctor, error)
	getPatient  func(ctx context.Context, id uuid.UUID) (*Patient, error)
	getAppt     func(ctx context.Context, id uuid.UUID) (*Appointment, error)
	slotTaken   func(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error)
	create      func(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error)
	update      func(ctx context.Context, id uuid.UUID, at time.Time, notes *string) (*Appointment, error)
	deleteAppt  func(ctx context.Context, id uuid.UUID) error
	list        func(ctx context.Context, filter string) ([]AppointmentDetail, error)
	insertEvent func(ctx context.Context, ev EventLog) error
}

func (m *mockRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return m.getDoctor(ctx, id)
}

func (m *mockRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return m.getPatient(ctx, id)
}

func (m *mockRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return m.getAppt(ctx, id)
}

func (m *mockRepository) SlotTaken(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error) {
	return m.slotTaken(ctx, doctorID, at, exclude)
}

func (m *mockRepository) CreateAppointment(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
	return m.create(ctx, doctorID, patientID, at, notes)
}

func (m *mockRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
	return m.update(ctx, id, at, notes)
}

func (m *mockRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return m.deleteAppt(ctx, id)
}

func (m *mockRepository) ListAppointments(ctx context.Context, filter string) ([]AppointmentDetail, error) {
	return m.list(ctx, filter)
}

func (m *mockRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	return m.insertEvent(ctx, ev)
}

// contentionLocker refuses every acquisition, as a Redis locker does when the
// key is already held.
type contentionLocker struct{}

func (contentionLocker) WithKeyLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func healthyMockRepo(doctorID, patientID uuid.UUID) *mockRepository {
	return &mockRepository{
		getDoctor: func(ctx context.Context, id uuid.UUID) (*Doctor, error) {
			return &Doctor{ID: doctorID, FullName: "Grace Obi", Available: true}, nil
		},
		getPatient: func(ctx context.Context, id uuid.UUID) (*Patient, error) {
			return &Patient{ID: patientID, FullName: "Aiko Tanaka"}, nil
		},
		slotTaken: func(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error) {
			return false, nil
		},
		insertEvent: func(ctx context.Context, ev EventLog) error { return nil },
	}
}

func TestBookLockContention(t *testing.T) {
	doctorID, patientID := uuid.New(), uuid.New()
	repo := healthyMockRepo(doctorID, patientID)

	svc := NewService(repo, contentionLocker{}, clock.Fixed(testNow), events.NewNopPublisher())

	_, err := svc.Book(context.Background(), doctorID, patientID, testNow.Add(time.Hour), "")
	assert.ErrorIs(t, err, ErrSlotBusy)
}

func TestBookRepositoryFailures(t *testing.T) {
	doctorID, patientID := uuid.New(), uuid.New()
	storeErr := errors.New("connection reset")

	t.Run("doctor lookup failure is wrapped", func(t *testing.T) {
		repo := healthyMockRepo(doctorID, patientID)
		repo.getDoctor = func(ctx context.Context, id uuid.UUID) (*Doctor, error) {
			return nil, storeErr
		}
		svc := NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())

		_, err := svc.Book(context.Background(), doctorID, patientID, testNow.Add(time.Hour), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrDoctorNotFound)
	})

	t.Run("slot check failure is wrapped", func(t *testing.T) {
		repo := healthyMockRepo(doctorID, patientID)
		repo.slotTaken = func(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error) {
			return false, storeErr
		}
		svc := NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())

		_, err := svc.Book(context.Background(), doctorID, patientID, testNow.Add(time.Hour), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("insert failure surfaces, not swallowed as conflict", func(t *testing.T) {
		repo := healthyMockRepo(doctorID, patientID)
		repo.create = func(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
			return nil, storeErr
		}
		svc := NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())

		_, err := svc.Book(context.Background(), doctorID, patientID, testNow.Add(time.Hour), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("event log failure does not fail the booking", func(t *testing.T) {
		repo := healthyMockRepo(doctorID, patientID)
		repo.create = func(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
			return &Appointment{ID: uuid.New(), DoctorID: doctorID, PatientID: patientID, StartTime: at}, nil
		}
		repo.insertEvent = func(ctx context.Context, ev EventLog) error {
			return storeErr
		}
		svc := NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())

		appt, err := svc.Book(context.Background(), doctorID, patientID, testNow.Add(time.Hour), "")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, appt.ID)
	})
}

func TestListFailureWrapped(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := &mockRepository{
		list: func(ctx context.Context, filter string) ([]AppointmentDetail, error) {
			return nil, storeErr
		},
	}
	svc := NewService(repo, lock.NewKeyMutex(), clock.Fixed(testNow), events.NewNopPublisher())

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, storeErr)
}

package booking

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemRepository is a mutex-guarded map backend. It serves the unit tests and
// single-node deployments where Postgres is not configured.
type MemRepository struct {
	mu           sync.RWMutex
	doctors      map[uuid.UUID]Doctor
	patients     map[uuid.UUID]Patient
	appointments map[uuid.UUID]Appointment
	events       []EventLog
}

func NewMemRepository() *MemRepository {
	return &MemRepository{
		doctors:      make(map[uuid.UUID]Doctor),
		patients:     make(map[uuid.UUID]Patient),
		appointments: make(map[uuid.UUID]Appointment),
	}
}

// PutDoctor and PutPatient populate the directory side of the store. The
// booking service itself never writes doctors or patients.

func (r *MemRepository) PutDoctor(d Doctor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[d.ID] = d
}

func (r *MemRepository) PutPatient(p Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.ID] = p
}

func (r *MemRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return &d, nil
}

func (r *MemRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *MemRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *MemRepository) SlotTaken(ctx context.Context, doctorID uuid.UUID, at time.Time, exclude uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == exclude {
			continue
		}
		if a.DoctorID == doctorID && SameSlot(a.StartTime, at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemRepository) CreateAppointment(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	a := Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		StartTime: at,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.appointments[a.ID] = a

	return &a, nil
}

func (r *MemRepository) UpdateAppointment(ctx context.Context, id uuid.UUID, at time.Time, notes *string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	a.StartTime = at
	a.Notes = notes
	a.UpdatedAt = time.Now()
	r.appointments[id] = a

	return &a, nil
}

func (r *MemRepository) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)

	return nil
}

func (r *MemRepository) ListAppointments(ctx context.Context, filter string) ([]AppointmentDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter))

	var result []AppointmentDetail
	for _, a := range r.appointments {
		det := AppointmentDetail{Appointment: a}

		if d, ok := r.doctors[a.DoctorID]; ok {
			det.DoctorName = d.FullName
			if d.Specialty != nil {
				det.DoctorSpecialty = *d.Specialty
			}
		}
		if p, ok := r.patients[a.PatientID]; ok {
			det.PatientName = p.FullName
			if p.Email != nil {
				det.PatientEmail = *p.Email
			}
		}

		if needle != "" && !matchesFilter(det, needle) {
			continue
		}

		result = append(result, det)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.After(result[j].StartTime)
	})

	return result, nil
}

func matchesFilter(det AppointmentDetail, needle string) bool {
	return strings.Contains(strings.ToLower(det.DoctorName), needle) ||
		strings.Contains(strings.ToLower(det.PatientName), needle) ||
		strings.Contains(strings.ToLower(det.DoctorSpecialty), needle)
}

func (r *MemRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev.ID = int64(len(r.events) + 1)
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	r.events = append(r.events, ev)

	return nil
}

// Doctors returns a copy of the doctor rows.
func (r *MemRepository) Doctors() []Doctor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out
}

// Patients returns a copy of the patient rows.
func (r *MemRepository) Patients() []Patient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out
}

// Events returns a copy of the recorded event log.
func (r *MemRepository) Events() []EventLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out
}

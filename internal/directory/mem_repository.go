package directory

import (
	"context"
	"sort"

	"github.com/carepoint/scheduling-stock-service/internal/booking"
)

// MemRepository reads directly from the booking memory backend so the memory
// deployment has a single source of truth for doctors and patients.
type MemRepository struct {
	store *booking.MemRepository
}

func NewMemRepository(store *booking.MemRepository) *MemRepository {
	return &MemRepository{store: store}
}

func (r *MemRepository) ListAvailableDoctors(ctx context.Context) ([]booking.Doctor, error) {
	doctors := r.store.Doctors()

	var result []booking.Doctor
	for _, d := range doctors {
		if d.Available {
			result = append(result, d)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].FullName < result[j].FullName
	})

	return result, nil
}

func (r *MemRepository) ListPatients(ctx context.Context) ([]booking.Patient, error) {
	patients := r.store.Patients()

	sort.Slice(patients, func(i, j int) bool {
		return patients[i].FullName < patients[j].FullName
	})

	return patients, nil
}

// Package directory exposes the read-only doctor and patient listings that a
// caller consults before issuing a booking. The booking core holds doctor and
// patient ids only; this package owns nothing and validates nothing beyond
// what the backing rows assert.
package directory

import (
	"context"
	"fmt"

	"github.com/carepoint/scheduling-stock-service/internal/booking"
)

type Repository interface {
	ListAvailableDoctors(ctx context.Context) ([]booking.Doctor, error)
	ListPatients(ctx context.Context) ([]booking.Patient, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAvailableDoctors returns only doctors flagged as available for booking.
func (s *Service) ListAvailableDoctors(ctx context.Context) ([]booking.Doctor, error) {
	doctors, err := s.repo.ListAvailableDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) ListPatients(ctx context.Context) ([]booking.Patient, error) {
	patients, err := s.repo.ListPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

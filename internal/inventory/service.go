package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carepoint/scheduling-stock-service/internal/events"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrBlankName       = errors.New("medicine name must not be blank")
	ErrBlankCategory   = errors.New("medicine category must not be blank")
)

type Service struct {
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}

// AddMedicine registers a new medicine. Callers normally run raw input
// through validation.ParseMedicineInput first; the checks here are the
// store-side guarantee.
func (s *Service) AddMedicine(ctx context.Context, name, category string, price float64, quantity int) (*Medicine, error) {
	if name == "" {
		return nil, ErrBlankName
	}
	if category == "" {
		return nil, ErrBlankCategory
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	m, err := s.repo.CreateMedicine(ctx, name, category, price, quantity)
	if err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	return m, nil
}

// Search matches term against medicine name or category; an empty term
// returns the whole catalogue.
func (s *Service) Search(ctx context.Context, term string) ([]Medicine, error) {
	result, err := s.repo.SearchMedicines(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	return result, nil
}

// SetStock overwrites quantity on hand, used for restocks and corrections.
func (s *Service) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*Medicine, error) {
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	m, err := s.repo.SetQuantity(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, ErrMedicineNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("set stock: %w", err)
	}

	s.publisher.Publish(ctx, events.TypeStockAdjusted, id.String(), m)

	return m, nil
}

// RecordSale decrements stock by quantitySold, atomically with respect to
// concurrent sales of the same medicine. No partial fulfillment: a sale
// either fully succeeds or leaves quantity on hand unchanged.
func (s *Service) RecordSale(ctx context.Context, id uuid.UUID, quantitySold int) (*SaleOutcome, error) {
	if quantitySold <= 0 {
		return nil, ErrInvalidQuantity
	}

	m, err := s.repo.DecrementQuantity(ctx, id, quantitySold)
	if err != nil {
		if errors.Is(err, ErrMedicineNotFound) || errors.Is(err, ErrInsufficientStock) {
			return nil, err
		}
		return nil, fmt.Errorf("record sale: %w", err)
	}

	outcome := &SaleOutcome{
		MedicineID:   m.ID,
		QuantitySold: quantitySold,
		Remaining:    m.Quantity,
		UnitPrice:    m.UnitPrice,
		Total:        m.UnitPrice * float64(quantitySold),
	}

	s.publisher.Publish(ctx, events.TypeStockSold, id.String(), outcome)

	return outcome, nil
}

// LowStock lists medicines below the given threshold, for the stock worker.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Medicine, error) {
	if threshold <= 0 {
		return nil, ErrInvalidQuantity
	}

	result, err := s.repo.FindBelowThreshold(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("find low stock: %w", err)
	}
	return result, nil
}

package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock for sale")
)

// Repository contains all persistence interactions needed by the service.
// DecrementQuantity must be atomic with respect to concurrent calls for the
// same medicine: the stock check and the decrement are one step, so quantity
// on hand can never go negative.
type Repository interface {
	CreateMedicine(ctx context.Context, name, category string, price float64, quantity int) (*Medicine, error)
	GetMedicineByID(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// SearchMedicines matches term as a case-insensitive substring of name or
	// category. An empty term returns everything, ordered by name.
	SearchMedicines(ctx context.Context, term string) ([]Medicine, error)

	// SetQuantity overwrites quantity on hand (restock as an absolute set).
	SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*Medicine, error)

	// DecrementQuantity reduces quantity on hand by qty and returns the
	// updated row, or ErrInsufficientStock leaving the row untouched.
	DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error)

	// FindBelowThreshold lists medicines whose quantity on hand is strictly
	// below threshold. Used by the stock worker.
	FindBelowThreshold(ctx context.Context, threshold int) ([]Medicine, error)
}

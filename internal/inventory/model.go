package inventory

import (
	"time"

	"github.com/google/uuid"
)

type Medicine struct {
	ID        uuid.UUID
	Name      string
	Category  string
	UnitPrice float64
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleOutcome describes a fully applied sale. Sales never partially fulfill:
// either the whole quantity is decremented or nothing changes.
type SaleOutcome struct {
	MedicineID   uuid.UUID
	QuantitySold int
	Remaining    int
	UnitPrice    float64
	Total        float64
}

package inventory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemRepository is a mutex-guarded map backend. The write lock makes
// DecrementQuantity's check-then-decrement a single atomic step.
type MemRepository struct {
	mu        sync.RWMutex
	medicines map[uuid.UUID]Medicine
}

func NewMemRepository() *MemRepository {
	return &MemRepository{medicines: make(map[uuid.UUID]Medicine)}
}

func (r *MemRepository) CreateMedicine(ctx context.Context, name, category string, price float64, quantity int) (*Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	m := Medicine{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		UnitPrice: price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.medicines[m.ID] = m

	return &m, nil
}

func (r *MemRepository) GetMedicineByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.medicines[id]
	if !ok {
		return nil, ErrMedicineNotFound
	}
	return &m, nil
}

func (r *MemRepository) SearchMedicines(ctx context.Context, term string) ([]Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))

	var result []Medicine
	for _, m := range r.medicines {
		if needle != "" &&
			!strings.Contains(strings.ToLower(m.Name), needle) &&
			!strings.Contains(strings.ToLower(m.Category), needle) {
			continue
		}
		result = append(result, m)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

func (r *MemRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.medicines[id]
	if !ok {
		return nil, ErrMedicineNotFound
	}

	m.Quantity = quantity
	m.UpdatedAt = time.Now()
	r.medicines[id] = m

	return &m, nil
}

func (r *MemRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.medicines[id]
	if !ok {
		return nil, ErrMedicineNotFound
	}

	if m.Quantity < qty {
		return nil, ErrInsufficientStock
	}

	m.Quantity -= qty
	m.UpdatedAt = time.Now()
	r.medicines[id] = m

	return &m, nil
}

func (r *MemRepository) FindBelowThreshold(ctx context.Context, threshold int) ([]Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Medicine
	for _, m := range r.medicines {
		if m.Quantity < threshold {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity < result[j].Quantity
		}
		return result[i].Name < result[j].Name
	})

	return result, nil
}

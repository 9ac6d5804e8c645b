package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Category,
		&m.UnitPrice,
		&m.Quantity,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *PgRepository) CreateMedicine(ctx context.Context, name, category string, price float64, quantity int) (*Medicine, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO medicines (id, name, category, unit_price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, name, category, unit_price, quantity, created_at, updated_at
	`, id, name, category, price, quantity)

	return scanMedicine(row)
}

func (r *PgRepository) GetMedicineByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, category, unit_price, quantity, created_at, updated_at
		FROM medicines
		WHERE id = $1
	`, id)
	return scanMedicine(row)
}

func (r *PgRepository) SearchMedicines(ctx context.Context, term string) ([]Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, unit_price, quantity, created_at, updated_at
		FROM medicines
		WHERE $1 = ''
		   OR name ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		ORDER BY name
	`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedicines(rows)
}

func (r *PgRepository) SetQuantity(ctx context.Context, id uuid.UUID, quantity int) (*Medicine, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE medicines
		SET quantity = $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, category, unit_price, quantity, created_at, updated_at
	`, id, quantity)

	return scanMedicine(row)
}

// DecrementQuantity locks the medicine row, checks the stock level, and
// applies the decrement in one transaction. On shortfall the transaction
// rolls back and nothing changes.
func (r *PgRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) (*Medicine, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin sale tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int
	err = tx.QueryRow(ctx, `
		SELECT quantity FROM medicines WHERE id = $1 FOR UPDATE
	`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}

	if current < qty {
		return nil, ErrInsufficientStock
	}

	row := tx.QueryRow(ctx, `
		UPDATE medicines
		SET quantity = quantity - $2,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, category, unit_price, quantity, created_at, updated_at
	`, id, qty)

	m, err := scanMedicine(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale tx: %w", err)
	}

	return m, nil
}

func (r *PgRepository) FindBelowThreshold(ctx context.Context, threshold int) ([]Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, unit_price, quantity, created_at, updated_at
		FROM medicines
		WHERE quantity < $1
		ORDER BY quantity, name
	`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectMedicines(rows)
}

func collectMedicines(rows pgx.Rows) ([]Medicine, error) {
	var result []Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

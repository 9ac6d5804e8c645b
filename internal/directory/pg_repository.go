package directory

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carepoint/scheduling-stock-service/internal/booking"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListAvailableDoctors(ctx context.Context) ([]booking.Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, specialty, available, created_at, updated_at
		FROM doctors
		WHERE available
		ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDoctors(rows)
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]booking.Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, email, created_at, updated_at
		FROM patients
		ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []booking.Patient
	for rows.Next() {
		var p booking.Patient
		var email *string

		if err := rows.Scan(&p.ID, &p.FullName, &email, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}

		p.Email = email
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func collectDoctors(rows pgx.Rows) ([]booking.Doctor, error) {
	var result []booking.Doctor
	for rows.Next() {
		var d booking.Doctor
		var specialty *string

		if err := rows.Scan(&d.ID, &d.FullName, &specialty, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}

		d.Specialty = specialty
		result = append(result, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Package repository provides data access for the consultant directory.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Consultant is a staff member who can be assigned bookings.
type Consultant struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	Phone     string
	Active    bool
	CreatedAt time.Time
	Services  []string
}

// Repository provides access to consultants and their service assignments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new staff repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActiveByService returns active consultants assigned to the given
// service type, ordered by seniority (creation time, then ID for ties).
func (r *Repository) ListActiveByService(ctx context.Context, serviceType string) ([]Consultant, error) {
	const query = `
		SELECT u.id, u.full_name, u.email, COALESCE(u.phone, ''), u.active, u.created_at
		FROM users u
		JOIN consultant_services cs ON cs.user_id = u.id
		WHERE u.active = TRUE
		  AND 'consultant' = ANY(u.roles)
		  AND cs.service_type = $1
		ORDER BY u.created_at, u.id`

	rows, err := r.pool.Query(ctx, query, serviceType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanConsultants(rows)
}

// ListAll returns every consultant with their service assignments.
func (r *Repository) ListAll(ctx context.Context) ([]Consultant, error) {
	const query = `
		SELECT u.id, u.full_name, u.email, COALESCE(u.phone, ''), u.active, u.created_at,
		       COALESCE(array_agg(cs.service_type) FILTER (WHERE cs.service_type IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN consultant_services cs ON cs.user_id = u.id
		WHERE 'consultant' = ANY(u.roles)
		GROUP BY u.id
		ORDER BY u.created_at, u.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consultants []Consultant
	for rows.Next() {
		var c Consultant
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Active, &c.CreatedAt, &c.Services); err != nil {
			return nil, err
		}
		consultants = append(consultants, c)
	}
	return consultants, rows.Err()
}

// ReplaceServices replaces a consultant's service assignments atomically.
func (r *Repository) ReplaceServices(ctx context.Context, userID uuid.UUID, services []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM consultant_services WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, serviceType := range services {
		_, err := tx.Exec(ctx,
			`INSERT INTO consultant_services (user_id, service_type) VALUES ($1, $2)`,
			userID, serviceType)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanConsultants(rows pgx.Rows) ([]Consultant, error) {
	var consultants []Consultant
	for rows.Next() {
		var c Consultant
		if err := rows.Scan(&c.ID, &c.FullName, &c.Email, &c.Phone, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		consultants = append(consultants, c)
	}
	return consultants, rows.Err()
}

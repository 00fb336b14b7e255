package establishments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores establishments in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("establishments: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const establishmentColumns = `
	id, name, slug, category, email, phone, website, description, services,
	address_line_1, address_line_2, landmark, city, state, pincode, created_at
`

func scanEstablishment(row pgx.Row) (*Establishment, error) {
	var e Establishment
	var addr Address
	if err := row.Scan(
		&e.ID, &e.Name, &e.Slug, &e.Category, &e.Email, &e.Phone,
		&e.Website, &e.Description, &e.Services,
		&addr.AddressLine1, &addr.AddressLine2, &addr.Landmark,
		&addr.City, &addr.State, &addr.Pincode, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	if addr != (Address{}) {
		e.Address = &addr
	}
	return &e, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Establishment, error) {
	query := `SELECT ` + establishmentColumns + ` FROM establishments WHERE id = $1`
	e, err := scanEstablishment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEstablishmentNotFound
		}
		return nil, fmt.Errorf("establishments: select failed: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) DoctorIDs(ctx context.Context, establishmentID string) ([]string, error) {
	query := `
		SELECT doctor_id FROM doctor_establishments
		WHERE establishment_id = $1
		ORDER BY doctor_id
	`
	return r.collectStrings(ctx, query, establishmentID)
}

func (r *PostgresRepository) Search(ctx context.Context, query, location string) ([]*Establishment, error) {
	sql := `
		SELECT ` + establishmentColumns + `
		FROM establishments
		WHERE (
			name ILIKE '%' || $1 || '%'
			OR category ILIKE '%' || $1 || '%'
			OR EXISTS (
				SELECT 1 FROM unnest(services) AS svc
				WHERE svc ILIKE '%' || $1 || '%'
			)
		)
		AND (city ILIKE '%' || $2 || '%' OR state ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, sql, query, location)
	if err != nil {
		return nil, fmt.Errorf("establishments: search failed: %w", err)
	}
	defer rows.Close()

	var out []*Establishment
	for rows.Next() {
		e, err := scanEstablishment(rows)
		if err != nil {
			return nil, fmt.Errorf("establishments: search scan failed: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) SuggestNames(ctx context.Context, term string) ([]string, error) {
	query := `
		SELECT name FROM establishments
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`
	return r.collectStrings(ctx, query, term)
}

func (r *PostgresRepository) SuggestCategories(ctx context.Context, term string) ([]string, error) {
	query := `
		SELECT DISTINCT category FROM establishments
		WHERE category <> '' AND category ILIKE '%' || $1 || '%'
		ORDER BY category
	`
	return r.collectStrings(ctx, query, term)
}

func (r *PostgresRepository) CreateStaffRequest(ctx context.Context, req *StaffRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = StaffRequestPending
	req.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO establishment_staff_requests (id, establishment_id, doctor_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.EstablishmentID, req.DoctorID, string(req.Status), req.CreatedAt)
	if err != nil {
		return fmt.Errorf("establishments: create staff request failed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetStaffRequest(ctx context.Context, id string) (*StaffRequest, error) {
	query := `
		SELECT id, establishment_id, doctor_id, status, created_at, approved_at, rejected_at
		FROM establishment_staff_requests WHERE id = $1
	`
	var req StaffRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EstablishmentID, &req.DoctorID, &req.Status,
		&req.CreatedAt, &req.ApprovedAt, &req.RejectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffRequestNotFound
		}
		return nil, fmt.Errorf("establishments: select staff request failed: %w", err)
	}
	return &req, nil
}

func (r *PostgresRepository) PendingStaffRequests(ctx context.Context, doctorID string) ([]*StaffRequest, error) {
	query := `
		SELECT id, establishment_id, doctor_id, status, created_at, approved_at, rejected_at
		FROM establishment_staff_requests
		WHERE doctor_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("establishments: list staff requests failed: %w", err)
	}
	defer rows.Close()

	var out []*StaffRequest
	for rows.Next() {
		var req StaffRequest
		if err := rows.Scan(
			&req.ID, &req.EstablishmentID, &req.DoctorID, &req.Status,
			&req.CreatedAt, &req.ApprovedAt, &req.RejectedAt,
		); err != nil {
			return nil, fmt.Errorf("establishments: staff request scan failed: %w", err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) HasPendingStaffRequest(ctx context.Context, establishmentID, doctorID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM establishment_staff_requests
			WHERE establishment_id = $1 AND doctor_id = $2 AND status = 'pending'
		)`, establishmentID, doctorID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("establishments: pending check failed: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ResolveStaffRequest(ctx context.Context, id string, status StaffRequestStatus, resolvedAt time.Time) error {
	var column string
	switch status {
	case StaffRequestApproved:
		column = "approved_at"
	case StaffRequestRejected:
		column = "rejected_at"
	default:
		return fmt.Errorf("establishments: cannot resolve to status %q", status)
	}

	query := fmt.Sprintf(`
		UPDATE establishment_staff_requests
		SET status = $2, %s = $3
		WHERE id = $1
	`, column)
	tag, err := r.pool.Exec(ctx, query, id, string(status), resolvedAt)
	if err != nil {
		return fmt.Errorf("establishments: resolve staff request failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaffRequestNotFound
	}
	return nil
}

func (r *PostgresRepository) collectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("establishments: query failed: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("establishments: scan failed: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

package doctors

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// PostgresRepository stores doctors in the relational database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("doctors: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const doctorColumns = `
	id, full_name, slug, email, phone, gender, bio, specializations,
	reg_no, reg_council, reg_year, degree, institute_name,
	experience_years, fee,
	address_line_1, address_line_2, landmark, city, state, pincode,
	is_verified, consultation_duration, auto_confirm, created_at
`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var addr Address
	if err := row.Scan(
		&d.ID, &d.FullName, &d.Slug, &d.Email, &d.Phone, &d.Gender, &d.Bio,
		&d.Specializations,
		&d.RegNo, &d.RegCouncil, &d.RegYear, &d.Degree, &d.InstituteName,
		&d.ExperienceYears, &d.Fee,
		&addr.AddressLine1, &addr.AddressLine2, &addr.Landmark,
		&addr.City, &addr.State, &addr.Pincode,
		&d.IsVerified, &d.ConsultationDuration, &d.AutoConfirm, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	if addr != (Address{}) {
		d.Address = &addr
	}
	return &d, nil
}

// GetByID fetches a doctor row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	doctor, err := scanDoctor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("doctors: select failed: %w", err)
	}
	return doctor, nil
}

// Relations returns the doctor's establishment relations with their timings.
func (r *PostgresRepository) Relations(ctx context.Context, doctorID string) ([]EstablishmentRelation, error) {
	query := `
		SELECT establishment_id, is_owner, COALESCE(timings, '{}'::jsonb)
		FROM doctor_establishments
		WHERE doctor_id = $1
		ORDER BY establishment_id
	`
	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("doctors: relations query failed: %w", err)
	}
	defer rows.Close()

	var relations []EstablishmentRelation
	for rows.Next() {
		var rel EstablishmentRelation
		var raw []byte
		if err := rows.Scan(&rel.EstablishmentID, &rel.IsOwner, &raw); err != nil {
			return nil, fmt.Errorf("doctors: relations scan failed: %w", err)
		}
		timings, err := timeslot.ParseWeekTimings(raw)
		if err != nil {
			return nil, fmt.Errorf("doctors: relation %s: %w", rel.EstablishmentID, err)
		}
		rel.Timings = timings
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}

// AddRelation links a doctor to an establishment with empty timings.
func (r *PostgresRepository) AddRelation(ctx context.Context, doctorID, establishmentID string, isOwner bool) error {
	query := `
		INSERT INTO doctor_establishments (doctor_id, establishment_id, is_owner)
		VALUES ($1, $2, $3)
	`
	if _, err := r.pool.Exec(ctx, query, doctorID, establishmentID, isOwner); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrRelationExists
		}
		return fmt.Errorf("doctors: add relation failed: %w", err)
	}
	return nil
}

// UpdateTimings replaces the stored timings of one relation wholesale.
func (r *PostgresRepository) UpdateTimings(ctx context.Context, doctorID, establishmentID string, timings timeslot.WeekTimings) error {
	query := `
		UPDATE doctor_establishments
		SET timings = $3
		WHERE doctor_id = $1 AND establishment_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, doctorID, establishmentID, timings)
	if err != nil {
		return fmt.Errorf("doctors: update timings failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRelationNotFound
	}
	return nil
}

// SearchVerified filters verified doctors by query and location substrings.
func (r *PostgresRepository) SearchVerified(ctx context.Context, query, location string) ([]*Doctor, error) {
	sql := `
		SELECT ` + doctorColumns + `
		FROM doctors
		WHERE is_verified
		  AND (
			full_name ILIKE '%' || $1 || '%'
			OR EXISTS (
				SELECT 1 FROM unnest(specializations) AS spec
				WHERE spec ILIKE '%' || $1 || '%'
			)
		  )
		  AND (city ILIKE '%' || $2 || '%' OR state ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, sql, query, location)
	if err != nil {
		return nil, fmt.Errorf("doctors: search failed: %w", err)
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("doctors: search scan failed: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// SuggestNames returns verified doctor names containing term.
func (r *PostgresRepository) SuggestNames(ctx context.Context, term string) ([]string, error) {
	query := `
		SELECT full_name FROM doctors
		WHERE is_verified AND full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name
	`
	return r.collectStrings(ctx, query, term)
}

// SuggestSpecializations returns distinct specialization names containing term.
func (r *PostgresRepository) SuggestSpecializations(ctx context.Context, term string) ([]string, error) {
	query := `
		SELECT DISTINCT spec
		FROM doctors, unnest(specializations) AS spec
		WHERE spec ILIKE '%' || $1 || '%'
		ORDER BY spec
	`
	return r.collectStrings(ctx, query, term)
}

func (r *PostgresRepository) collectStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("doctors: suggestion query failed: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("doctors: suggestion scan failed: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

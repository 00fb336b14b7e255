package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists feedback in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, fb *Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	fb.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO feedbacks (id, doctor_id, patient_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		fb.ID, fb.DoctorID, fb.PatientID, fb.Rating, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, doctor_id, patient_id, rating, COALESCE(comment, ''),
		       COALESCE(reply, ''), replied_at, created_at
		FROM feedbacks WHERE id = $1`, id)

	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return fb, nil
}

func (r *PostgresRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*Feedback, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, patient_id, rating, COALESCE(comment, ''),
		       COALESCE(reply, ''), replied_at, created_at
		FROM feedbacks WHERE doctor_id = $1
		ORDER BY created_at DESC`, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []*Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Reply(ctx context.Context, id, reply string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE feedbacks SET reply = $2, replied_at = $3 WHERE id = $1`,
		id, reply, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("reply to feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *PostgresRepository) AverageForDoctor(ctx context.Context, doctorID string) (float64, bool, error) {
	var avg *float64
	err := r.pool.QueryRow(ctx,
		`SELECT AVG(rating)::float8 FROM feedbacks WHERE doctor_id = $1`, doctorID,
	).Scan(&avg)
	if err != nil {
		return 0, false, fmt.Errorf("average rating: %w", err)
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

func (r *PostgresRepository) AveragesForDoctors(ctx context.Context, doctorIDs []string) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT doctor_id, AVG(rating)::float8
		FROM feedbacks WHERE doctor_id = ANY($1)
		GROUP BY doctor_id`, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("average ratings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(doctorIDs))
	for rows.Next() {
		var doctorID string
		var avg float64
		if err := rows.Scan(&doctorID, &avg); err != nil {
			return nil, fmt.Errorf("scan average: %w", err)
		}
		out[doctorID] = avg
	}
	return out, rows.Err()
}

func scanFeedback(row pgx.Row) (*Feedback, error) {
	var fb Feedback
	err := row.Scan(&fb.ID, &fb.DoctorID, &fb.PatientID, &fb.Rating,
		&fb.Comment, &fb.Reply, &fb.RepliedAt, &fb.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

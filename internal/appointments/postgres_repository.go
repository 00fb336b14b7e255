package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists appointments in Postgres. The schema
// carries a partial unique index on (doctor_id, date, start_time)
// restricted to active statuses, so concurrent bookings of the same
// slot cannot both commit even if they pass HasConflict.
type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB injects an arbitrary DB, used by tests.
func NewPostgresRepositoryWithDB(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var activeStatusStrings = []string{
	string(StatusPending), string(StatusConfirmed), string(StatusRescheduled),
}

const appointmentColumns = `
	id, patient_id, doctor_id, COALESCE(establishment_id, ''), date,
	start_time, end_time, status, message, is_paid, is_rescheduled,
	confirmed_at, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_id, doctor_id, establishment_id, date,
			start_time, end_time, status, message, is_paid,
			is_rescheduled, confirmed_at, created_at, updated_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		appt.ID, appt.PatientID, appt.DoctorID, appt.EstablishmentID,
		appt.Date, appt.StartTime.String(), appt.EndTime.String(),
		string(appt.Status), appt.Message, appt.IsPaid,
		appt.IsRescheduled, appt.ConfirmedAt, appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return r.mapError(err, appt)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

func (r *PostgresRepository) Update(ctx context.Context, appt *Appointment) error {
	appt.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET
			date = $2, start_time = $3, end_time = $4, status = $5,
			message = $6, is_paid = $7, is_rescheduled = $8,
			confirmed_at = $9, updated_at = $10
		WHERE id = $1`,
		appt.ID, appt.Date, appt.StartTime.String(), appt.EndTime.String(),
		string(appt.Status), appt.Message, appt.IsPaid, appt.IsRescheduled,
		appt.ConfirmedAt, appt.UpdatedAt,
	)
	if err != nil {
		return r.mapError(err, appt)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PostgresRepository) HasConflict(ctx context.Context, doctorID string, date time.Time, start timeslot.TimeOfDay, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND date = $2
			  AND start_time = $3
			  AND status = ANY($4)
			  AND id <> $5
		)`,
		doctorID, date, start.String(), activeStatusStrings, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check conflict: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error) {
	rows, err := r.db.Query(ctx, `
		SELECT start_time FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status = ANY($3)
		ORDER BY start_time`,
		doctorID, date, activeStatusStrings,
	)
	if err != nil {
		return nil, fmt.Errorf("list booked starts: %w", err)
	}
	defer rows.Close()

	var starts []timeslot.TimeOfDay
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan booked start: %w", err)
		}
		start, err := timeslot.ParseTimeOfDay(raw)
		if err != nil {
			return nil, fmt.Errorf("booked start %q: %w", raw, err)
		}
		starts = append(starts, start)
	}
	return starts, rows.Err()
}

func (r *PostgresRepository) List(ctx context.Context, patientID, doctorID string) ([]*Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE ($1 = '' OR patient_id = $1)
		  AND ($2 = '' OR doctor_id = $2)
		ORDER BY date, start_time`,
		patientID, doctorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appts []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}
	return appts, rows.Err()
}

func (r *PostgresRepository) CountsByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM appointments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

// mapError turns a unique-index violation on the active-slot index into
// a ConflictError so callers see the same failure whether the race was
// caught before or during the insert.
func (r *PostgresRepository) mapError(err error, appt *Appointment) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &ConflictError{DoctorID: appt.DoctorID, Date: appt.Date, StartTime: appt.StartTime}
	}
	return fmt.Errorf("persist appointment: %w", err)
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		appt       Appointment
		start, end string
	)
	err := row.Scan(
		&appt.ID, &appt.PatientID, &appt.DoctorID, &appt.EstablishmentID,
		&appt.Date, &start, &end, &appt.Status, &appt.Message,
		&appt.IsPaid, &appt.IsRescheduled, &appt.ConfirmedAt,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if appt.StartTime, err = timeslot.ParseTimeOfDay(start); err != nil {
		return nil, fmt.Errorf("stored start_time %q: %w", start, err)
	}
	if appt.EndTime, err = timeslot.ParseTimeOfDay(end); err != nil {
		return nil, fmt.Errorf("stored end_time %q: %w", end, err)
	}
	return &appt, nil
}

package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewPostgresRepositoryWithDB(mock), mock
}

func TestPostgresCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_appointments_active_slot"})

	appt := &Appointment{
		PatientID: "pat-1",
		DoctorID:  "doc-1",
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "09:00"),
		EndTime:   mustTime(t, "09:30"),
		Status:    StatusPending,
	}
	err := repo.Create(context.Background(), appt)
	if !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresHasConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("doc-1", date, "09:00", activeStatusStrings, "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasConflict(context.Background(), "doc-1", date, mustTime(t, "09:00"), "")
	if err != nil {
		t.Fatal(err)
	}
	if !conflict {
		t.Fatal("expected conflict")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresBookedStarts(t *testing.T) {
	repo, mock := newMockRepo(t)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT start_time FROM appointments").
		WithArgs("doc-1", date, activeStatusStrings).
		WillReturnRows(pgxmock.NewRows([]string{"start_time"}).AddRow("09:00").AddRow("10:30"))

	starts, err := repo.BookedStarts(context.Background(), "doc-1", date)
	if err != nil {
		t.Fatal(err)
	}
	if len(starts) != 2 || starts[0].String() != "09:00" || starts[1].String() != "10:30" {
		t.Fatalf("starts = %v", starts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	appt := &Appointment{
		ID:        "missing",
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: mustTime(t, "09:00"),
		EndTime:   mustTime(t, "09:30"),
		Status:    StatusPending,
	}
	if err := repo.Update(context.Background(), appt); err != ErrAppointmentNotFound {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresCountsByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 3).
			AddRow("confirmed", 5))

	counts, err := repo.CountsByStatus(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if counts[StatusPending] != 3 || counts[StatusConfirmed] != 5 {
		t.Fatalf("counts = %v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

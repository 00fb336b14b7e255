package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/observability/metrics"
	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

var bookingTracer = otel.Tracer("cliniify/appointments")

// DoctorSource resolves the doctor being booked; doctors.Repository
// satisfies it.
type DoctorSource interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
}

// StatusNotifier dispatches a patient notification after a status
// transition. Implementations are fire-and-forget: they must never
// block the booking flow or surface delivery errors to it.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, appt *Appointment, previous Status)
}

// Service applies the conflict guard and confirmation policy around the
// appointment ledger.
type Service struct {
	repo     Repository
	doctors  DoctorSource
	notifier StatusNotifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

func NewService(repo Repository, docs DoctorSource, notifier StatusNotifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	return &Service{
		repo:     repo,
		doctors:  docs,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BookRequest describes a new appointment.
type BookRequest struct {
	PatientID       string
	DoctorID        string
	EstablishmentID string
	Date            time.Time
	StartTime       timeslot.TimeOfDay
	Message         string
}

func (r BookRequest) validate() error {
	if r.PatientID == "" {
		return fmt.Errorf("%w: patient_id is required", ErrInvalidRequest)
	}
	if r.DoctorID == "" {
		return fmt.Errorf("%w: doctor_id is required", ErrInvalidRequest)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	return nil
}

// Book creates an appointment. The slot must be free among active
// appointments; the doctor's auto-confirm flag decides whether the
// result starts out pending or confirmed.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("doctor_id", req.DoctorID),
		attribute.String("date", req.Date.Format("2006-01-02")),
	)

	if err := req.validate(); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	conflict, err := s.repo.HasConflict(ctx, req.DoctorID, req.Date, req.StartTime, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		s.metrics.ObserveConflict()
		return nil, &ConflictError{DoctorID: req.DoctorID, Date: req.Date, StartTime: req.StartTime}
	}

	derived, err := DeriveFields(doctor, req.StartTime, StatusPending, false, true, s.now())
	if err != nil {
		return nil, err
	}

	appt := &Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		EstablishmentID: req.EstablishmentID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         derived.EndTime,
		Status:          derived.Status,
		Message:         req.Message,
		ConfirmedAt:     derived.ConfirmedAt,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if IsConflict(err) {
			s.metrics.ObserveConflict()
		}
		return nil, err
	}
	s.metrics.ObserveCreated(string(appt.Status))

	// An auto-confirmed booking is a transition out of pending from the
	// patient's point of view.
	if appt.Status == StatusConfirmed {
		s.dispatchNotification(ctx, appt, StatusPending)
	}
	return appt, nil
}

// UpdateRequest describes a partial appointment update. Nil fields are
// left untouched.
type UpdateRequest struct {
	Status        *Status
	Date          *time.Time
	StartTime     *timeslot.TimeOfDay
	Message       *string
	IsPaid        *bool
	IsRescheduled bool
}

// Update applies a status change or reschedule. A reschedule moves the
// appointment and forces it back to pending; any slot move re-runs the
// conflict guard against the other active appointments.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Appointment, error) {
	ctx, span := bookingTracer.Start(ctx, "appointments.update")
	defer span.End()
	span.SetAttributes(attribute.String("appointment_id", id))

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := appt.Status

	doctor, err := s.doctors.GetByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		appt.Date = *req.Date
	}
	if req.StartTime != nil {
		appt.StartTime = *req.StartTime
	}
	if req.Message != nil {
		appt.Message = *req.Message
	}
	if req.IsPaid != nil {
		appt.IsPaid = *req.IsPaid
	}
	if req.IsRescheduled {
		appt.IsRescheduled = true
	}

	requested := previous
	if req.Status != nil {
		requested = *req.Status
	}

	// Auto-confirm only re-applies when the slot itself moves; a plain
	// status or message PATCH keeps the requested status as-is.
	slotChanged := req.Date != nil || req.StartTime != nil
	derived, err := DeriveFields(doctor, appt.StartTime, requested, req.IsRescheduled, slotChanged, s.now())
	if err != nil {
		return nil, err
	}
	appt.EndTime = derived.EndTime
	appt.Status = derived.Status
	switch {
	case derived.Status != StatusConfirmed:
		appt.ConfirmedAt = nil
	case previous != StatusConfirmed:
		appt.ConfirmedAt = derived.ConfirmedAt
	}

	if appt.Status.IsActive() {
		conflict, err := s.repo.HasConflict(ctx, appt.DoctorID, appt.Date, appt.StartTime, appt.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			s.metrics.ObserveConflict()
			return nil, &ConflictError{DoctorID: appt.DoctorID, Date: appt.Date, StartTime: appt.StartTime}
		}
	}

	if err := s.repo.Update(ctx, appt); err != nil {
		if IsConflict(err) {
			s.metrics.ObserveConflict()
		}
		return nil, err
	}

	if appt.Status != previous {
		s.dispatchNotification(ctx, appt, previous)
	}
	return appt, nil
}

// Get returns an appointment by id.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns appointments for a patient and/or doctor. At least one
// filter is required.
func (s *Service) List(ctx context.Context, patientID, doctorID string) ([]*Appointment, error) {
	if patientID == "" && doctorID == "" {
		return nil, fmt.Errorf("%w: patient_id or doctor_id is required", ErrInvalidRequest)
	}
	return s.repo.List(ctx, patientID, doctorID)
}

// BookedStarts exposes the active start times for a doctor/date; the
// slot generator consumes this.
func (s *Service) BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error) {
	return s.repo.BookedStarts(ctx, doctorID, date)
}

func (s *Service) dispatchNotification(ctx context.Context, appt *Appointment, previous Status) {
	if s.notifier == nil {
		return
	}
	s.logger.Info("appointment status changed",
		"appointment_id", appt.ID, "from", previous, "to", appt.Status)
	s.notifier.NotifyStatusChange(ctx, appt, previous)
}

// NotFound reports whether err means the appointment or doctor is absent.
func NotFound(err error) bool {
	return errors.Is(err, ErrAppointmentNotFound) || errors.Is(err, doctors.ErrDoctorNotFound)
}

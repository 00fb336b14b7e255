package appointments

import (
	"fmt"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// Status represents the lifecycle state of an appointment.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusRejected    Status = "rejected"
	StatusRescheduled Status = "rescheduled"
	StatusCancelled   Status = "cancelled"
	StatusCompleted   Status = "completed"
)

// ActiveStatuses are the statuses that occupy a doctor's calendar slot.
// Cancelled, rejected and completed appointments free their slot.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusRescheduled}

// ParseStatus validates a client-supplied status string.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusConfirmed, StatusRejected,
		StatusRescheduled, StatusCancelled, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("unknown appointment status %q", raw)
}

// IsActive reports whether the status occupies a calendar slot.
func (s Status) IsActive() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// Appointment is a booking of a doctor's slot by a patient.
type Appointment struct {
	ID              string             `json:"id"`
	PatientID       string             `json:"patient_id"`
	DoctorID        string             `json:"doctor_id"`
	EstablishmentID string             `json:"establishment_id,omitempty"`
	Date            time.Time          `json:"date"`
	StartTime       timeslot.TimeOfDay `json:"start_time"`
	EndTime         timeslot.TimeOfDay `json:"end_time"`
	Status          Status             `json:"status"`
	Message         string             `json:"message,omitempty"`
	IsPaid          bool               `json:"is_paid"`
	IsRescheduled   bool               `json:"is_rescheduled"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// DateString returns the appointment's calendar date in YYYY-MM-DD form.
func (a *Appointment) DateString() string {
	return a.Date.Format("2006-01-02")
}

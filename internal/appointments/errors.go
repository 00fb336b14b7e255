package appointments

import (
	"errors"
	"fmt"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

var (
	// ErrAppointmentNotFound indicates the requested appointment does not exist.
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrInvalidRequest indicates the booking request failed validation.
	ErrInvalidRequest = errors.New("appointments: invalid request")
)

// ConflictError is returned when another active appointment already
// occupies the same doctor, date and start time.
type ConflictError struct {
	DoctorID  string
	Date      time.Time
	StartTime timeslot.TimeOfDay
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointments: doctor %s already has an active appointment on %s at %s",
		e.DoctorID, e.Date.Format("2006-01-02"), e.StartTime)
}

// IsConflict reports whether err is a scheduling conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

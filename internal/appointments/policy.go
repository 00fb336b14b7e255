package appointments

import (
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// DerivedFields is the outcome of applying the confirmation policy to a
// booking or reschedule attempt.
type DerivedFields struct {
	EndTime     timeslot.TimeOfDay
	Status      Status
	ConfirmedAt *time.Time
}

// DeriveFields computes an appointment's end time and effective status
// from the doctor's configured consultation duration and auto-confirm
// flag. Rules apply in order: the end time is always start plus the
// doctor's duration; a reschedule always lands back in pending so the
// doctor must re-confirm; an auto-confirming doctor promotes a pending
// appointment straight to confirmed and stamps confirmed_at, but only
// while the slot is being written (create or a slot move, slotChanged) —
// an explicitly requested status such as cancelled or rejected is never
// overridden.
func DeriveFields(doctor *doctors.Doctor, start timeslot.TimeOfDay, requested Status, isReschedule, slotChanged bool, now time.Time) (DerivedFields, error) {
	duration, err := doctor.Duration()
	if err != nil {
		return DerivedFields{}, err
	}

	out := DerivedFields{EndTime: start.Add(duration)}

	if requested == "" {
		requested = StatusPending
	}

	switch {
	case isReschedule:
		out.Status = StatusPending
	case doctor.AutoConfirm && slotChanged && requested == StatusPending:
		out.Status = StatusConfirmed
		confirmedAt := now
		out.ConfirmedAt = &confirmedAt
	default:
		out.Status = requested
		if requested == StatusConfirmed {
			confirmedAt := now
			out.ConfirmedAt = &confirmedAt
		}
	}
	return out, nil
}

package notify

import (
	"fmt"

	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
)

// TemplateKind identifies the notification template for a status change.
type TemplateKind string

const (
	TemplateConfirmed   TemplateKind = "confirmed"
	TemplateCancelled   TemplateKind = "cancelled"
	TemplateRescheduled TemplateKind = "rescheduled"
	TemplateRejected    TemplateKind = "rejected"
)

// TemplateKindFor maps an appointment's new status to a template. Not
// every transition notifies the patient: a plain pending appointment
// (fresh booking awaiting confirmation) sends nothing.
func TemplateKindFor(appt *appointments.Appointment) (TemplateKind, bool) {
	switch appt.Status {
	case appointments.StatusConfirmed:
		return TemplateConfirmed, true
	case appointments.StatusCancelled:
		return TemplateCancelled, true
	case appointments.StatusRejected:
		return TemplateRejected, true
	case appointments.StatusRescheduled:
		return TemplateRescheduled, true
	case appointments.StatusPending:
		if appt.IsRescheduled {
			return TemplateRescheduled, true
		}
	}
	return "", false
}

// TemplateContext carries the details interpolated into a template.
type TemplateContext struct {
	PatientName string
	DoctorName  string
	Date        string
	StartTime   string
	EndTime     string
}

// Render produces the subject and plain-text body for a template.
func Render(kind TemplateKind, tc TemplateContext) (subject, body string) {
	when := fmt.Sprintf("%s from %s to %s", tc.Date, tc.StartTime, tc.EndTime)

	switch kind {
	case TemplateConfirmed:
		subject = "Your appointment is confirmed"
		body = fmt.Sprintf("Hi %s,\n\nYour appointment with %s on %s has been confirmed.\n\nSee you there!",
			tc.PatientName, tc.DoctorName, when)
	case TemplateCancelled:
		subject = "Your appointment has been cancelled"
		body = fmt.Sprintf("Hi %s,\n\nYour appointment with %s on %s has been cancelled.\n\nYou can book a new slot anytime.",
			tc.PatientName, tc.DoctorName, when)
	case TemplateRescheduled:
		subject = "Your appointment has been rescheduled"
		body = fmt.Sprintf("Hi %s,\n\nYour appointment with %s has been moved to %s and is awaiting re-confirmation.",
			tc.PatientName, tc.DoctorName, when)
	case TemplateRejected:
		subject = "Your appointment request was declined"
		body = fmt.Sprintf("Hi %s,\n\n%s is unable to take your appointment on %s.\n\nPlease pick another slot.",
			tc.PatientName, tc.DoctorName, when)
	}
	return subject, body
}

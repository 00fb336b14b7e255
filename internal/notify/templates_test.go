package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
)

func TestTemplateKindFor(t *testing.T) {
	tests := []struct {
		name          string
		status        appointments.Status
		isRescheduled bool
		want          TemplateKind
		ok            bool
	}{
		{"confirmed", appointments.StatusConfirmed, false, TemplateConfirmed, true},
		{"cancelled", appointments.StatusCancelled, false, TemplateCancelled, true},
		{"rejected", appointments.StatusRejected, false, TemplateRejected, true},
		{"rescheduled", appointments.StatusRescheduled, false, TemplateRescheduled, true},
		{"pending after reschedule", appointments.StatusPending, true, TemplateRescheduled, true},
		{"plain pending", appointments.StatusPending, false, "", false},
		{"completed", appointments.StatusCompleted, false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appt := &appointments.Appointment{Status: tt.status, IsRescheduled: tt.isRescheduled}
			kind, ok := TemplateKindFor(appt)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestRenderIncludesContext(t *testing.T) {
	tc := TemplateContext{
		PatientName: "Asha",
		DoctorName:  "Dr. Meera Kulkarni",
		Date:        "2026-09-07",
		StartTime:   "09:00",
		EndTime:     "09:30",
	}
	for _, kind := range []TemplateKind{TemplateConfirmed, TemplateCancelled, TemplateRescheduled, TemplateRejected} {
		subject, body := Render(kind, tc)
		assert.NotEmpty(t, subject, "subject for %s", kind)
		assert.Contains(t, body, "Asha", "body for %s", kind)
		assert.Contains(t, body, "Dr. Meera Kulkarni", "body for %s", kind)
		assert.Contains(t, body, "2026-09-07", "body for %s", kind)
	}
}

package notify

import (
	"context"

	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Publisher enqueues status-change notifications. It satisfies
// appointments.StatusNotifier: enqueue failures are logged and dropped
// so delivery problems never fail the booking that triggered them.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

// NewMemoryPublisher wires a Publisher to an in-memory queue and
// returns both, for local development.
func NewMemoryPublisher(buffer int, logger *logging.Logger) (*Publisher, *MemoryQueue) {
	q := NewMemoryQueue(buffer)
	return NewPublisher(q, logger), q
}

// NewSQSPublisher wires a Publisher to an SQS-backed queue.
func NewSQSPublisher(queue *SQSQueue, logger *logging.Logger) *Publisher {
	return NewPublisher(queue, logger)
}

func (p *Publisher) NotifyStatusChange(ctx context.Context, appt *appointments.Appointment, previous appointments.Status) {
	kind, ok := TemplateKindFor(appt)
	if !ok {
		return
	}

	_, body, err := encodePayload(queuePayload{
		Kind:          kind,
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorID:      appt.DoctorID,
		Date:          appt.DateString(),
		StartTime:     appt.StartTime.String(),
		EndTime:       appt.EndTime.String(),
	})
	if err != nil {
		p.logger.Error("failed to encode notification", "error", err, "appointment_id", appt.ID)
		return
	}

	if err := p.queue.Send(ctx, body); err != nil {
		p.logger.Error("failed to enqueue notification",
			"error", err, "appointment_id", appt.ID, "kind", kind)
	}
}

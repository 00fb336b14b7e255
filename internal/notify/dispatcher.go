package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/patients"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// PatientSource resolves the recipient of a notification.
// patients.Repository satisfies it.
type PatientSource interface {
	GetByID(ctx context.Context, id string) (*patients.Patient, error)
}

// DoctorSource resolves the doctor named in the notification body.
// doctors.Repository satisfies it.
type DoctorSource interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
}

// Dispatcher consumes queued status notifications and emails the
// patient. Delivery is at-least-once and best-effort: a failed send is
// logged and the message dropped rather than retried forever.
type Dispatcher struct {
	queue    queueClient
	sender   EmailSender
	patients PatientSource
	doctors  DoctorSource
	logger   *logging.Logger

	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	wg               sync.WaitGroup
}

func NewDispatcher(queue queueClient, sender EmailSender, patientSrc PatientSource, doctorSrc DoctorSource, workers int, logger *logging.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		queue:            queue,
		sender:           sender,
		patients:         patientSrc,
		doctors:          doctorSrc,
		logger:           logger,
		workers:          workers,
		receiveWaitSecs:  10,
		receiveBatchSize: 5,
	}
}

// Start launches the worker goroutines. They stop when ctx is
// cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, workerID int) {
	defer d.wg.Done()
	d.logger.Debug("notification worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("notification worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := d.queue.Receive(ctx, d.receiveBatchSize, d.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			d.logger.Error("failed to receive notifications", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			d.handleMessage(ctx, msg)
		}
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg queueMessage) {
	payload, err := decodePayload(msg.Body)
	if err != nil {
		d.logger.Error("failed to decode notification", "error", err, "msg_id", msg.ID)
		d.deleteMessage(msg.ReceiptHandle)
		return
	}

	if err := d.deliver(ctx, payload); err != nil {
		d.logger.Error("failed to deliver notification",
			"error", err, "appointment_id", payload.AppointmentID, "kind", payload.Kind)
	}
	// Delete either way: a permanently broken notification should not
	// poison the queue.
	d.deleteMessage(msg.ReceiptHandle)
}

func (d *Dispatcher) deliver(ctx context.Context, payload queuePayload) error {
	patient, err := d.patients.GetByID(ctx, payload.PatientID)
	if err != nil {
		return err
	}
	address := patient.ContactAddress()
	if address == "" {
		d.logger.Warn("patient has no contact address, skipping notification",
			"patient_id", payload.PatientID)
		return nil
	}

	doctorName := "your doctor"
	if doctor, err := d.doctors.GetByID(ctx, payload.DoctorID); err == nil {
		doctorName = doctors.FormatFullName(doctor.FullName)
	}

	subject, body := Render(payload.Kind, TemplateContext{
		PatientName: patient.FullName,
		DoctorName:  doctorName,
		Date:        payload.Date,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
	})

	return d.sender.Send(ctx, EmailMessage{
		To:      address,
		ToName:  patient.FullName,
		Subject: subject,
		Body:    body,
	})
}

func (d *Dispatcher) deleteMessage(receiptHandle string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.queue.Delete(ctx, receiptHandle); err != nil {
		d.logger.Error("failed to delete notification message", "error", err)
	}
}

package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/patients"
	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []EmailMessage
	done chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{done: make(chan struct{}, 8)}
}

func (s *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func (s *recordingSender) messages() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}

func testAppointment(t *testing.T, status appointments.Status, patientID string) *appointments.Appointment {
	t.Helper()
	start, err := timeslot.ParseTimeOfDay("09:00")
	if err != nil {
		t.Fatal(err)
	}
	end, err := timeslot.ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatal(err)
	}
	return &appointments.Appointment{
		ID:        "appt-1",
		PatientID: patientID,
		DoctorID:  "doc-1",
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestPublisherAndDispatcherDeliverEmail(t *testing.T) {
	patientRepo := patients.NewInMemoryRepository()
	patient, err := patientRepo.Create(context.Background(), &patients.RegisterRequest{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}

	doctorRepo := doctors.NewInMemoryRepository()
	doctorRepo.Put(&doctors.Doctor{ID: "doc-1", FullName: "Meera Kulkarni"})

	publisher, queue := NewMemoryPublisher(8, logging.Default())
	sender := newRecordingSender()
	dispatcher := NewDispatcher(queue, sender, patientRepo, doctorRepo, 1, logging.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher.Start(ctx)

	publisher.NotifyStatusChange(ctx, testAppointment(t, appointments.StatusConfirmed, patient.ID), appointments.StatusPending)

	select {
	case <-sender.done:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgs))
	}
	if msgs[0].To != "asha@example.com" {
		t.Fatalf("to = %s", msgs[0].To)
	}
	if !strings.Contains(msgs[0].Subject, "confirmed") {
		t.Fatalf("subject = %q", msgs[0].Subject)
	}
	if !strings.Contains(msgs[0].Body, "Dr. Meera Kulkarni") {
		t.Fatalf("body should name the doctor: %q", msgs[0].Body)
	}

	cancel()
	dispatcher.Wait()
}

func TestPublisherSkipsPlainPending(t *testing.T) {
	publisher, queue := NewMemoryPublisher(8, logging.Default())

	publisher.NotifyStatusChange(context.Background(), testAppointment(t, appointments.StatusPending, "pat-1"), appointments.StatusConfirmed)

	msgs, err := queue.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) > 0 {
		t.Fatalf("plain pending should not enqueue, got %v", msgs)
	}
}

func TestPublisherRescheduledPendingUsesRescheduledTemplate(t *testing.T) {
	publisher, queue := NewMemoryPublisher(8, logging.Default())

	appt := testAppointment(t, appointments.StatusPending, "pat-1")
	appt.IsRescheduled = true
	publisher.NotifyStatusChange(context.Background(), appt, appointments.StatusConfirmed)

	msgs, err := queue.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected one queued notification, got %d", len(msgs))
	}
	payload, err := decodePayload(msgs[0].Body)
	if err != nil {
		t.Fatal(err)
	}
	if payload.Kind != TemplateRescheduled {
		t.Fatalf("kind = %s, want rescheduled", payload.Kind)
	}
}

func TestDispatcherSkipsPatientWithoutContact(t *testing.T) {
	patientRepo := patients.NewInMemoryRepository()
	doctorRepo := doctors.NewInMemoryRepository()

	queue := NewMemoryQueue(8)
	sender := newRecordingSender()
	dispatcher := NewDispatcher(queue, sender, patientRepo, doctorRepo, 1, logging.Default())

	_, body, err := encodePayload(queuePayload{
		Kind:          TemplateCancelled,
		AppointmentID: "appt-1",
		PatientID:     "missing",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := queue.Send(context.Background(), body); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Start(ctx)

	time.Sleep(300 * time.Millisecond)
	cancel()
	dispatcher.Wait()

	if msgs := sender.messages(); len(msgs) != 0 {
		t.Fatalf("no email expected for unknown patient, got %v", msgs)
	}
}

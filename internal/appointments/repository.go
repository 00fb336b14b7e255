package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// Repository persists appointments and answers slot-occupancy queries.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, appt *Appointment) error

	// HasConflict reports whether another active appointment occupies
	// the doctor's slot. excludeID skips the appointment being updated.
	HasConflict(ctx context.Context, doctorID string, date time.Time, start timeslot.TimeOfDay, excludeID string) (bool, error)

	// BookedStarts lists start times of active appointments for a
	// doctor on a date; feeds the slot generator.
	BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error)

	// List returns appointments filtered by patient and/or doctor,
	// ordered by date then start time. Empty filters are ignored.
	List(ctx context.Context, patientID, doctorID string) ([]*Appointment, error)

	// CountsByStatus tallies appointments per status.
	CountsByStatus(ctx context.Context) (map[Status]int, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*Appointment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now

	if appt.Status.IsActive() {
		for _, existing := range r.items {
			if r.occupiesSlot(existing, appt.DoctorID, appt.Date, appt.StartTime, appt.ID) {
				return &ConflictError{DoctorID: appt.DoctorID, Date: appt.Date, StartTime: appt.StartTime}
			}
		}
	}

	clone := *appt
	r.items[appt.ID] = &clone
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.items[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	clone := *appt
	return &clone, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, appt *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[appt.ID]; !ok {
		return ErrAppointmentNotFound
	}
	// Only an active appointment claims its slot; saving a cancelled or
	// rejected one must not collide with whoever rebooked the slot. This
	// mirrors the partial unique index on the database path.
	if appt.Status.IsActive() {
		for _, existing := range r.items {
			if r.occupiesSlot(existing, appt.DoctorID, appt.Date, appt.StartTime, appt.ID) {
				return &ConflictError{DoctorID: appt.DoctorID, Date: appt.Date, StartTime: appt.StartTime}
			}
		}
	}

	appt.UpdatedAt = time.Now().UTC()
	clone := *appt
	r.items[appt.ID] = &clone
	return nil
}

func (r *InMemoryRepository) HasConflict(ctx context.Context, doctorID string, date time.Time, start timeslot.TimeOfDay, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, existing := range r.items {
		if r.occupiesSlot(existing, doctorID, date, start, excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var starts []timeslot.TimeOfDay
	for _, existing := range r.items {
		if existing.DoctorID == doctorID && sameDate(existing.Date, date) && existing.Status.IsActive() {
			starts = append(starts, existing.StartTime)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	return starts, nil
}

func (r *InMemoryRepository) List(ctx context.Context, patientID, doctorID string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var appts []*Appointment
	for _, existing := range r.items {
		if patientID != "" && existing.PatientID != patientID {
			continue
		}
		if doctorID != "" && existing.DoctorID != doctorID {
			continue
		}
		clone := *existing
		appts = append(appts, &clone)
	}
	sort.Slice(appts, func(i, j int) bool {
		if !appts[i].Date.Equal(appts[j].Date) {
			return appts[i].Date.Before(appts[j].Date)
		}
		return appts[i].StartTime < appts[j].StartTime
	})
	return appts, nil
}

func (r *InMemoryRepository) CountsByStatus(ctx context.Context) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int)
	for _, existing := range r.items {
		counts[existing.Status]++
	}
	return counts, nil
}

func (r *InMemoryRepository) occupiesSlot(existing *Appointment, doctorID string, date time.Time, start timeslot.TimeOfDay, excludeID string) bool {
	return existing.ID != excludeID &&
		existing.DoctorID == doctorID &&
		sameDate(existing.Date, date) &&
		existing.StartTime == start &&
		existing.Status.IsActive()
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

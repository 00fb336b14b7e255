package feedback

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists feedback and answers rating aggregates.
type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	GetByID(ctx context.Context, id string) (*Feedback, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]*Feedback, error)
	Reply(ctx context.Context, id, reply string) error

	// AverageForDoctor returns the mean rating and whether the doctor
	// has any feedback at all.
	AverageForDoctor(ctx context.Context, doctorID string) (float64, bool, error)

	// AveragesForDoctors returns mean ratings keyed by doctor id.
	// Doctors without feedback are absent from the map.
	AveragesForDoctors(ctx context.Context, doctorIDs []string) (map[string]float64, error)
}

// InMemoryRepository is a Repository backed by a slice, used in tests
// and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []*Feedback
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ctx context.Context, fb *Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	fb.CreatedAt = time.Now().UTC()
	clone := *fb
	r.items = append(r.items, &clone)
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, fb := range r.items {
		if fb.ID == id {
			clone := *fb
			return &clone, nil
		}
	}
	return nil, ErrFeedbackNotFound
}

func (r *InMemoryRepository) ListForDoctor(ctx context.Context, doctorID string) ([]*Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Feedback
	for _, fb := range r.items {
		if fb.DoctorID == doctorID {
			clone := *fb
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Reply(ctx context.Context, id, reply string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, fb := range r.items {
		if fb.ID == id {
			now := time.Now().UTC()
			fb.Reply = reply
			fb.RepliedAt = &now
			return nil
		}
	}
	return ErrFeedbackNotFound
}

func (r *InMemoryRepository) AverageForDoctor(ctx context.Context, doctorID string) (float64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum, count := 0, 0
	for _, fb := range r.items {
		if fb.DoctorID == doctorID {
			sum += fb.Rating
			count++
		}
	}
	if count == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(count), true, nil
}

func (r *InMemoryRepository) AveragesForDoctors(ctx context.Context, doctorIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(doctorIDs))
	for _, id := range doctorIDs {
		avg, ok, err := r.AverageForDoctor(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = avg
		}
	}
	return out, nil
}

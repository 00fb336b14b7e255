package doctors

import (
	"context"
	"strings"
	"sync"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// Repository defines the interface for doctor storage
type Repository interface {
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Relations(ctx context.Context, doctorID string) ([]EstablishmentRelation, error)
	AddRelation(ctx context.Context, doctorID, establishmentID string, isOwner bool) error
	UpdateTimings(ctx context.Context, doctorID, establishmentID string, timings timeslot.WeekTimings) error

	// SearchVerified returns verified doctors whose name or any
	// specialization contains query AND whose address city or state
	// contains location, both case-insensitive.
	SearchVerified(ctx context.Context, query, location string) ([]*Doctor, error)

	// SuggestNames returns verified doctor names containing term.
	SuggestNames(ctx context.Context, term string) ([]string, error)

	// SuggestSpecializations returns distinct specialization names
	// containing term.
	SuggestSpecializations(ctx context.Context, term string) ([]string, error)
}

// InMemoryRepository is an in-memory Repository used by tests and local runs.
type InMemoryRepository struct {
	mu        sync.RWMutex
	doctors   map[string]*Doctor
	relations map[string][]EstablishmentRelation
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		doctors:   make(map[string]*Doctor),
		relations: make(map[string][]EstablishmentRelation),
	}
}

// Put stores or replaces a doctor.
func (r *InMemoryRepository) Put(d *Doctor) {
	r.mu.Lock()
	r.doctors[d.ID] = d
	r.mu.Unlock()
}

// PutRelation appends an establishment relation for a doctor.
func (r *InMemoryRepository) PutRelation(doctorID string, rel EstablishmentRelation) {
	r.mu.Lock()
	r.relations[doctorID] = append(r.relations[doctorID], rel)
	r.mu.Unlock()
}

// GetByID retrieves a doctor by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doctor, ok := r.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// Relations returns the doctor's establishment relations.
func (r *InMemoryRepository) Relations(ctx context.Context, doctorID string) ([]EstablishmentRelation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rels := r.relations[doctorID]
	out := make([]EstablishmentRelation, len(rels))
	copy(out, rels)
	return out, nil
}

// AddRelation links a doctor to an establishment with empty timings.
func (r *InMemoryRepository) AddRelation(ctx context.Context, doctorID, establishmentID string, isOwner bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rel := range r.relations[doctorID] {
		if rel.EstablishmentID == establishmentID {
			return ErrRelationExists
		}
	}
	r.relations[doctorID] = append(r.relations[doctorID], EstablishmentRelation{
		EstablishmentID: establishmentID,
		IsOwner:         isOwner,
	})
	return nil
}

// UpdateTimings replaces the timings of one relation wholesale.
func (r *InMemoryRepository) UpdateTimings(ctx context.Context, doctorID, establishmentID string, timings timeslot.WeekTimings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rels := r.relations[doctorID]
	for i := range rels {
		if rels[i].EstablishmentID == establishmentID {
			rels[i].Timings = timings
			return nil
		}
	}
	return ErrRelationNotFound
}

// SearchVerified filters verified doctors by query and location substrings.
func (r *InMemoryRepository) SearchVerified(ctx context.Context, query, location string) ([]*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	loc := strings.ToLower(strings.TrimSpace(location))

	var out []*Doctor
	for _, d := range r.doctors {
		if !d.IsVerified {
			continue
		}
		if !matchesQuery(d, q) || !matchesLocation(d, loc) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func matchesQuery(d *Doctor, q string) bool {
	if strings.Contains(strings.ToLower(d.FullName), q) {
		return true
	}
	for _, spec := range d.Specializations {
		if strings.Contains(strings.ToLower(spec), q) {
			return true
		}
	}
	return false
}

func matchesLocation(d *Doctor, loc string) bool {
	if d.Address == nil {
		return false
	}
	return strings.Contains(strings.ToLower(d.Address.City), loc) ||
		strings.Contains(strings.ToLower(d.Address.State), loc)
}

// SuggestNames returns verified doctor names containing term.
func (r *InMemoryRepository) SuggestNames(ctx context.Context, term string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := strings.ToLower(term)
	var names []string
	for _, d := range r.doctors {
		if d.IsVerified && strings.Contains(strings.ToLower(d.FullName), t) {
			names = append(names, d.FullName)
		}
	}
	return names, nil
}

// SuggestSpecializations returns distinct specialization names containing term.
func (r *InMemoryRepository) SuggestSpecializations(ctx context.Context, term string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := strings.ToLower(term)
	seen := make(map[string]struct{})
	var specs []string
	for _, d := range r.doctors {
		for _, spec := range d.Specializations {
			if !strings.Contains(strings.ToLower(spec), t) {
				continue
			}
			if _, ok := seen[spec]; ok {
				continue
			}
			seen[spec] = struct{}{}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

package establishments

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository persists establishments and staff requests.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Establishment, error)

	// DoctorIDs lists the doctors affiliated with an establishment.
	DoctorIDs(ctx context.Context, establishmentID string) ([]string, error)

	// Search returns establishments whose name, category or any service
	// contains query AND whose address city or state contains location,
	// both case-insensitive.
	Search(ctx context.Context, query, location string) ([]*Establishment, error)

	// SuggestNames returns establishment names containing term.
	SuggestNames(ctx context.Context, term string) ([]string, error)

	// SuggestCategories returns distinct categories containing term.
	SuggestCategories(ctx context.Context, term string) ([]string, error)

	CreateStaffRequest(ctx context.Context, req *StaffRequest) error
	GetStaffRequest(ctx context.Context, id string) (*StaffRequest, error)
	PendingStaffRequests(ctx context.Context, doctorID string) ([]*StaffRequest, error)
	HasPendingStaffRequest(ctx context.Context, establishmentID, doctorID string) (bool, error)
	ResolveStaffRequest(ctx context.Context, id string, status StaffRequestStatus, resolvedAt time.Time) error
}

// InMemoryRepository is a Repository backed by maps, used in tests and
// local development.
type InMemoryRepository struct {
	mu             sync.RWMutex
	establishments map[string]*Establishment
	staff          map[string][]string // establishment id -> doctor ids
	requests       map[string]*StaffRequest
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		establishments: make(map[string]*Establishment),
		staff:          make(map[string][]string),
		requests:       make(map[string]*StaffRequest),
	}
}

// Put stores or replaces an establishment.
func (r *InMemoryRepository) Put(e *Establishment) {
	r.mu.Lock()
	r.establishments[e.ID] = e
	r.mu.Unlock()
}

// PutStaff affiliates a doctor with an establishment.
func (r *InMemoryRepository) PutStaff(establishmentID, doctorID string) {
	r.mu.Lock()
	r.staff[establishmentID] = append(r.staff[establishmentID], doctorID)
	r.mu.Unlock()
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Establishment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.establishments[id]
	if !ok {
		return nil, ErrEstablishmentNotFound
	}
	return e, nil
}

func (r *InMemoryRepository) DoctorIDs(ctx context.Context, establishmentID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.staff[establishmentID]
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (r *InMemoryRepository) Search(ctx context.Context, query, location string) ([]*Establishment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	loc := strings.ToLower(strings.TrimSpace(location))

	var out []*Establishment
	for _, e := range r.establishments {
		if matchesQuery(e, q) && matchesLocation(e, loc) {
			out = append(out, e)
		}
	}
	return out, nil
}

func matchesQuery(e *Establishment, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Category), q) {
		return true
	}
	for _, svc := range e.Services {
		if strings.Contains(strings.ToLower(svc), q) {
			return true
		}
	}
	return false
}

func matchesLocation(e *Establishment, loc string) bool {
	if loc == "" {
		return true
	}
	if e.Address == nil {
		return false
	}
	return strings.Contains(strings.ToLower(e.Address.City), loc) ||
		strings.Contains(strings.ToLower(e.Address.State), loc)
}

func (r *InMemoryRepository) SuggestNames(ctx context.Context, term string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := strings.ToLower(term)
	var names []string
	for _, e := range r.establishments {
		if strings.Contains(strings.ToLower(e.Name), t) {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

func (r *InMemoryRepository) SuggestCategories(ctx context.Context, term string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := strings.ToLower(term)
	seen := make(map[string]struct{})
	var categories []string
	for _, e := range r.establishments {
		if e.Category == "" || !strings.Contains(strings.ToLower(e.Category), t) {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, e.Category)
	}
	return categories, nil
}

func (r *InMemoryRepository) CreateStaffRequest(ctx context.Context, req *StaffRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = StaffRequestPending
	req.CreatedAt = time.Now().UTC()
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *InMemoryRepository) GetStaffRequest(ctx context.Context, id string) (*StaffRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrStaffRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *InMemoryRepository) PendingStaffRequests(ctx context.Context, doctorID string) ([]*StaffRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*StaffRequest
	for _, req := range r.requests {
		if req.DoctorID == doctorID && req.Status == StaffRequestPending {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) HasPendingStaffRequest(ctx context.Context, establishmentID, doctorID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.EstablishmentID == establishmentID && req.DoctorID == doctorID && req.Status == StaffRequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) ResolveStaffRequest(ctx context.Context, id string, status StaffRequestStatus, resolvedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[id]
	if !ok {
		return ErrStaffRequestNotFound
	}
	req.Status = status
	switch status {
	case StaffRequestApproved:
		req.ApprovedAt = &resolvedAt
	case StaffRequestRejected:
		req.RejectedAt = &resolvedAt
	}
	return nil
}

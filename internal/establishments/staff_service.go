package establishments

import (
	"context"
	"errors"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// DoctorDirectory is the slice of doctors.Repository the staff workflow
// needs.
type DoctorDirectory interface {
	GetByID(ctx context.Context, id string) (*doctors.Doctor, error)
	Relations(ctx context.Context, doctorID string) ([]doctors.EstablishmentRelation, error)
	AddRelation(ctx context.Context, doctorID, establishmentID string, isOwner bool) error
}

// StaffService runs the staff invitation workflow: an establishment
// invites a doctor, the doctor accepts or rejects, and acceptance
// creates the doctor-establishment relation.
type StaffService struct {
	repo    Repository
	doctors DoctorDirectory
	logger  *logging.Logger
	now     func() time.Time
}

func NewStaffService(repo Repository, docs DoctorDirectory, logger *logging.Logger) *StaffService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StaffService{
		repo:    repo,
		doctors: docs,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SendRequest invites a doctor to join an establishment. Duplicate
// pending invites and doctors who already belong are rejected up front.
func (s *StaffService) SendRequest(ctx context.Context, establishmentID, doctorID string) (*StaffRequest, error) {
	if _, err := s.repo.GetByID(ctx, establishmentID); err != nil {
		return nil, err
	}
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	relations, err := s.doctors.Relations(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		if rel.EstablishmentID == establishmentID {
			return nil, ErrAlreadyStaff
		}
	}

	pending, err := s.repo.HasPendingStaffRequest(ctx, establishmentID, doctorID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicateStaffRequest
	}

	req := &StaffRequest{EstablishmentID: establishmentID, DoctorID: doctorID}
	if err := s.repo.CreateStaffRequest(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("staff request sent",
		"establishment_id", establishmentID, "doctor_id", doctorID, "request_id", req.ID)
	return req, nil
}

// PendingForDoctor lists the invitations awaiting the doctor's answer.
func (s *StaffService) PendingForDoctor(ctx context.Context, doctorID string) ([]*StaffRequest, error) {
	return s.repo.PendingStaffRequests(ctx, doctorID)
}

// Accept resolves a pending invitation and links the doctor to the
// establishment as non-owner staff.
func (s *StaffService) Accept(ctx context.Context, requestID string) (*StaffRequest, error) {
	req, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.doctors.AddRelation(ctx, req.DoctorID, req.EstablishmentID, false); err != nil {
		if errors.Is(err, doctors.ErrRelationExists) {
			return nil, ErrAlreadyStaff
		}
		return nil, err
	}

	resolvedAt := s.now()
	if err := s.repo.ResolveStaffRequest(ctx, requestID, StaffRequestApproved, resolvedAt); err != nil {
		return nil, err
	}
	req.Status = StaffRequestApproved
	req.ApprovedAt = &resolvedAt
	s.logger.Info("staff request accepted", "request_id", requestID, "doctor_id", req.DoctorID)
	return req, nil
}

// Reject resolves a pending invitation without linking the doctor.
func (s *StaffService) Reject(ctx context.Context, requestID string) (*StaffRequest, error) {
	req, err := s.pendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	resolvedAt := s.now()
	if err := s.repo.ResolveStaffRequest(ctx, requestID, StaffRequestRejected, resolvedAt); err != nil {
		return nil, err
	}
	req.Status = StaffRequestRejected
	req.RejectedAt = &resolvedAt
	return req, nil
}

func (s *StaffService) pendingRequest(ctx context.Context, requestID string) (*StaffRequest, error) {
	req, err := s.repo.GetStaffRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != StaffRequestPending {
		return nil, ErrRequestAlreadyResolved
	}
	return req, nil
}

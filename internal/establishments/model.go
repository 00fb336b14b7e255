package establishments

import (
	"errors"
	"time"
)

var (
	// ErrEstablishmentNotFound is returned when an establishment is not found
	ErrEstablishmentNotFound = errors.New("establishment not found")

	// ErrStaffRequestNotFound is returned when a staff request is not found
	ErrStaffRequestNotFound = errors.New("staff request not found")

	// ErrDuplicateStaffRequest is returned when a pending invite for the
	// same doctor and establishment already exists
	ErrDuplicateStaffRequest = errors.New("a pending staff request already exists for this doctor")

	// ErrAlreadyStaff is returned when inviting a doctor who already
	// belongs to the establishment
	ErrAlreadyStaff = errors.New("doctor already belongs to this establishment")

	// ErrRequestAlreadyResolved is returned when accepting or rejecting
	// a request that is no longer pending
	ErrRequestAlreadyResolved = errors.New("staff request has already been resolved")
)

// Address locates an establishment.
type Address struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode,omitempty"`
}

// Establishment is a clinic or hospital where doctors practice.
type Establishment struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Category    string    `json:"category,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Website     string    `json:"website,omitempty"`
	Description string    `json:"description,omitempty"`
	Services    []string  `json:"services,omitempty"`
	Address     *Address  `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StaffRequestStatus is the lifecycle state of a staff invitation.
type StaffRequestStatus string

const (
	StaffRequestPending  StaffRequestStatus = "pending"
	StaffRequestApproved StaffRequestStatus = "approved"
	StaffRequestRejected StaffRequestStatus = "rejected"
)

// StaffRequest is an invitation for a doctor to join an establishment's
// staff. Accepting it creates the doctor-establishment relation.
type StaffRequest struct {
	ID              string             `json:"id"`
	EstablishmentID string             `json:"establishment_id"`
	DoctorID        string             `json:"doctor_id"`
	Status          StaffRequestStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	ApprovedAt      *time.Time         `json:"approved_at,omitempty"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty"`
}

package patients

import (
	"strings"
	"time"
)

// Patient is the marketplace profile booking appointments. Only the fields
// the scheduling and notification paths need are modelled here.
type Patient struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the request body for patient registration.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
}

// Validate checks the registration payload.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.FullName) == "" {
		return ErrInvalidName
	}
	if r.Email == "" && r.Phone == "" {
		return ErrMissingContact
	}
	return nil
}

// ContactAddress returns the address status notifications are sent to,
// preferring email.
func (p *Patient) ContactAddress() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Phone
}

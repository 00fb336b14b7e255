package feedback

import (
	"errors"
	"time"
)

var (
	ErrInvalidRating    = errors.New("feedback: rating must be between 1 and 5")
	ErrFeedbackNotFound = errors.New("feedback: feedback not found")
)

// Feedback is a patient's rating of a doctor, optionally answered by
// the doctor.
type Feedback struct {
	ID        string     `json:"id"`
	DoctorID  string     `json:"doctor_id"`
	PatientID string     `json:"patient_id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment,omitempty"`
	Reply     string     `json:"reply,omitempty"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate checks the rating range before persisting.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

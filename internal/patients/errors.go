package patients

import "errors"

var (
	// ErrInvalidName is returned when the full name is blank
	ErrInvalidName = errors.New("full name is required")

	// ErrMissingContact is returned when both email and phone are missing
	ErrMissingContact = errors.New("either email or phone is required")

	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patient not found")
)

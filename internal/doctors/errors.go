package doctors

import "errors"

var (
	// ErrDoctorNotFound is returned when a doctor is not found
	ErrDoctorNotFound = errors.New("doctor not found")

	// ErrRelationNotFound is returned when a doctor has no relation with the
	// given establishment
	ErrRelationNotFound = errors.New("doctor-establishment relation not found")

	// ErrRelationExists is returned when linking a doctor to an
	// establishment they already belong to
	ErrRelationExists = errors.New("doctor-establishment relation already exists")

	// ErrInvalidDate is returned for malformed availability dates
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

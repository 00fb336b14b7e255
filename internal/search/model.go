package search

import (
	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/establishments"
)

// Kind tags the variant carried by a Result.
type Kind string

const (
	KindDoctor        Kind = "doctor"
	KindEstablishment Kind = "establishment"
)

// Result is a tagged union of the two searchable entities, carrying the
// computed average rating the combined list is sorted by.
type Result struct {
	Kind          Kind                          `json:"kind"`
	AverageRating float64                       `json:"average_rating"`
	Doctor        *doctors.Doctor               `json:"doctor,omitempty"`
	Establishment *establishments.Establishment `json:"establishment,omitempty"`
}

// ID returns the identity used for de-duplication across location
// tokens.
func (r Result) ID() string {
	switch r.Kind {
	case KindDoctor:
		return "d:" + r.Doctor.ID
	case KindEstablishment:
		return "e:" + r.Establishment.ID
	}
	return ""
}

// Suggestion is one entry of the category-tagged suggestion list.
type Suggestion struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Suggestion categories.
const (
	CategoryDoctor         = "Doctor"
	CategorySpecialization = "Specialization"
	CategoryEstablishment  = "Establishment"
	CategoryType           = "Type"
)

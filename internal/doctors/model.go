package doctors

import (
	"strings"
	"time"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
)

// Address is the practice address attached to a doctor profile. City and
// state feed the location filter of the search aggregator.
type Address struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Landmark     string `json:"landmark,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
}

// Doctor is a verified practitioner profile on the marketplace.
type Doctor struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	Slug            string   `json:"slug"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Gender          string   `json:"gender"`
	Bio             string   `json:"bio,omitempty"`
	Specializations []string `json:"specializations"`
	RegNo           string   `json:"reg_no,omitempty"`
	RegCouncil      string   `json:"reg_council,omitempty"`
	RegYear         int      `json:"reg_year,omitempty"`
	Degree          string   `json:"degree,omitempty"`
	InstituteName   string   `json:"institute_name,omitempty"`
	ExperienceYears int      `json:"experience_years,omitempty"`
	Fee             int      `json:"fee,omitempty"`
	Address         *Address `json:"address,omitempty"`
	IsVerified      bool     `json:"is_verified"`

	// ConsultationDuration is the "HH:MM" slot length (00:10 .. 01:00). It
	// drives both slot stepping and appointment end-time derivation.
	ConsultationDuration string `json:"consultation_duration"`

	// AutoConfirm makes new appointments skip manual confirmation.
	AutoConfirm bool `json:"auto_confirm"`

	CreatedAt time.Time `json:"created_at"`
}

// EstablishmentRelation links a doctor to an establishment together with the
// weekly timing windows the doctor keeps there. Timings are replaced
// wholesale on update, never edited partially.
type EstablishmentRelation struct {
	EstablishmentID string               `json:"establishment_id"`
	IsOwner         bool                 `json:"is_owner"`
	Timings         timeslot.WeekTimings `json:"timings,omitempty"`
}

// Duration parses the doctor's configured consultation duration.
func (d *Doctor) Duration() (timeslot.Duration, error) {
	return timeslot.ParseDuration(d.ConsultationDuration)
}

// FormatFullName normalizes a display name to carry exactly one "Dr." prefix.
// The prefix match requires a following dot or space so names like "Drew"
// are left intact.
func FormatFullName(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"dr.", "dr "} {
		if strings.HasPrefix(lower, prefix) {
			rest := strings.TrimSpace(trimmed[len(prefix):])
			if rest != "" {
				return "Dr. " + rest
			}
		}
	}
	return "Dr. " + trimmed
}

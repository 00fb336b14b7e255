package doctors

// trackableField is one profile attribute counted toward the completion
// percentage, paired with its own emptiness predicate. The list is static on
// purpose: reflection-based counting made the formula impossible to audit or
// tune, so every field that matters is enumerated here.
type trackableField struct {
	name   string
	filled func(d *Doctor) bool
}

var trackableFields = []trackableField{
	{"full_name", func(d *Doctor) bool { return d.FullName != "" }},
	{"email", func(d *Doctor) bool { return d.Email != "" }},
	{"phone", func(d *Doctor) bool { return d.Phone != "" }},
	{"gender", func(d *Doctor) bool { return d.Gender != "" }},
	{"bio", func(d *Doctor) bool { return d.Bio != "" }},
	{"specializations", func(d *Doctor) bool { return len(d.Specializations) > 0 }},
	{"reg_no", func(d *Doctor) bool { return d.RegNo != "" }},
	{"reg_council", func(d *Doctor) bool { return d.RegCouncil != "" }},
	{"reg_year", func(d *Doctor) bool { return d.RegYear > 0 }},
	{"degree", func(d *Doctor) bool { return d.Degree != "" }},
	{"institute_name", func(d *Doctor) bool { return d.InstituteName != "" }},
	{"experience_years", func(d *Doctor) bool { return d.ExperienceYears > 0 }},
	{"fee", func(d *Doctor) bool { return d.Fee > 0 }},
	{"address", func(d *Doctor) bool { return d.Address != nil && d.Address.City != "" }},
	{"consultation_duration", func(d *Doctor) bool { return d.ConsultationDuration != "" }},
}

// CompletionPercent returns how much of the profile is filled in, 0..100.
func CompletionPercent(d *Doctor) int {
	filled := 0
	for _, f := range trackableFields {
		if f.filled(d) {
			filled++
		}
	}
	pct := filled * 100 / len(trackableFields)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// MissingFields lists the trackable fields still empty, in declaration order.
func MissingFields(d *Doctor) []string {
	var missing []string
	for _, f := range trackableFields {
		if !f.filled(d) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

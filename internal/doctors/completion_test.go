package doctors

import "testing"

func fullProfile() *Doctor {
	return &Doctor{
		FullName:             "Dr. Meera Kulkarni",
		Email:                "meera@example.com",
		Phone:                "9876543210",
		Gender:               "F",
		Bio:                  "Cardiologist",
		Specializations:      []string{"Cardiology"},
		RegNo:                "MH-12345",
		RegCouncil:           "Maharashtra Medical Council",
		RegYear:              2011,
		Degree:               "MD",
		InstituteName:        "AIIMS",
		ExperienceYears:      12,
		Fee:                  800,
		Address:              &Address{City: "Pune", State: "Maharashtra"},
		ConsultationDuration: "00:30",
	}
}

func TestCompletionPercentFull(t *testing.T) {
	if got := CompletionPercent(fullProfile()); got != 100 {
		t.Fatalf("CompletionPercent = %d, want 100", got)
	}
	if missing := MissingFields(fullProfile()); len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}

func TestCompletionPercentEmpty(t *testing.T) {
	if got := CompletionPercent(&Doctor{}); got != 0 {
		t.Fatalf("CompletionPercent = %d, want 0", got)
	}
}

func TestCompletionTracksEachField(t *testing.T) {
	d := fullProfile()
	d.Bio = ""
	d.Fee = 0
	got := CompletionPercent(d)
	want := (len(trackableFields) - 2) * 100 / len(trackableFields)
	if got != want {
		t.Fatalf("CompletionPercent = %d, want %d", got, want)
	}
	missing := MissingFields(d)
	if len(missing) != 2 || missing[0] != "bio" || missing[1] != "fee" {
		t.Fatalf("MissingFields = %v", missing)
	}
}

func TestCompletionAddressNeedsCity(t *testing.T) {
	d := fullProfile()
	d.Address = &Address{State: "Maharashtra"}
	for _, name := range MissingFields(d) {
		if name == "address" {
			return
		}
	}
	t.Fatal("address without city should count as missing")
}

func TestFormatFullName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Meera Kulkarni", "Dr. Meera Kulkarni"},
		{"dr. Meera Kulkarni", "Dr. Meera Kulkarni"},
		{"DR Meera Kulkarni", "Dr. Meera Kulkarni"},
		{"Dr.Meera Kulkarni", "Dr. Meera Kulkarni"},
		{"  dr   Meera  ", "Dr. Meera"},
		{"Drew Barry", "Dr. Drew Barry"},
	}
	for _, tt := range tests {
		if got := FormatFullName(tt.in); got != tt.want {
			t.Errorf("FormatFullName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

package timeslot

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) TimeOfDay {
	t.Helper()
	v, err := ParseTimeOfDay(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return v
}

func mustDuration(t *testing.T, s string) Duration {
	t.Helper()
	d, err := ParseDuration(s)
	if err != nil {
		t.Fatalf("parse duration %q: %v", s, err)
	}
	return d
}

func times(t *testing.T, ss ...string) []TimeOfDay {
	t.Helper()
	out := make([]TimeOfDay, 0, len(ss))
	for _, s := range ss {
		out = append(out, mustTime(t, s))
	}
	return out
}

func equalTimes(a []TimeOfDay, b []TimeOfDay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fullDay(t *testing.T) (TimeOfDay, TimeOfDay) {
	return mustTime(t, "00:00"), mustTime(t, "23:59")
}

func TestGenerateMorningWindow(t *testing.T) {
	start, end := fullDay(t)
	windows := []Window{{Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")}}

	got, err := Generate(windows, mustDuration(t, "00:30"), nil, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := times(t, "09:00", "09:30", "10:00", "10:30")
	if !equalTimes(got.Morning, want) {
		t.Fatalf("morning = %v, want %v", got.Morning, want)
	}
	if len(got.Afternoon) != 0 || len(got.Evening) != 0 {
		t.Fatalf("expected empty afternoon/evening, got %v / %v", got.Afternoon, got.Evening)
	}
}

func TestGenerateExcludesBookedStarts(t *testing.T) {
	start, end := fullDay(t)
	windows := []Window{{Start: mustTime(t, "09:00"), End: mustTime(t, "11:00")}}
	booked := times(t, "09:30")

	got, err := Generate(windows, mustDuration(t, "00:30"), booked, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := times(t, "09:00", "10:00", "10:30")
	if !equalTimes(got.Morning, want) {
		t.Fatalf("morning = %v, want %v", got.Morning, want)
	}
}

func TestGenerateNeverOverrunsWindow(t *testing.T) {
	start, end := fullDay(t)
	step := mustDuration(t, "00:45")
	windows := []Window{{Start: mustTime(t, "09:00"), End: mustTime(t, "10:30")}}

	got, err := Generate(windows, step, nil, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:45+45 = 10:30 fits exactly; 10:30+45 would overrun.
	want := times(t, "09:00", "09:45")
	if !equalTimes(got.Morning, want) {
		t.Fatalf("morning = %v, want %v", got.Morning, want)
	}
	for _, slot := range got.Morning {
		if slot.Add(step) > windows[0].End {
			t.Fatalf("slot %s ends after window close", slot)
		}
	}
}

func TestGenerateBucketBoundaries(t *testing.T) {
	start, end := fullDay(t)
	windows := []Window{{Start: mustTime(t, "05:00"), End: mustTime(t, "22:00")}}

	got, err := Generate(windows, mustDuration(t, "01:00"), nil, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := times(t, "06:00", "07:00", "08:00", "09:00", "10:00", "11:00"); !equalTimes(got.Morning, want) {
		t.Fatalf("morning = %v, want %v", got.Morning, want)
	}
	if want := times(t, "12:00", "13:00", "14:00"); !equalTimes(got.Afternoon, want) {
		t.Fatalf("afternoon = %v, want %v", got.Afternoon, want)
	}
	if want := times(t, "15:00", "16:00", "17:00", "18:00", "19:00", "20:00"); !equalTimes(got.Evening, want) {
		t.Fatalf("evening = %v, want %v", got.Evening, want)
	}
}

func TestGenerateClampsToRequestedRange(t *testing.T) {
	windows := []Window{{Start: mustTime(t, "09:00"), End: mustTime(t, "12:00")}}

	got, err := Generate(windows, mustDuration(t, "00:30"), nil, mustTime(t, "10:00"), mustTime(t, "11:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := times(t, "10:00", "10:30")
	if !equalTimes(got.Morning, want) {
		t.Fatalf("morning = %v, want %v", got.Morning, want)
	}
}

func TestGenerateNoWindows(t *testing.T) {
	start, end := fullDay(t)
	got, err := Generate(nil, mustDuration(t, "00:15"), nil, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Morning == nil || got.Afternoon == nil || got.Evening == nil {
		t.Fatal("buckets must be present even when empty")
	}
	if len(got.Morning)+len(got.Afternoon)+len(got.Evening) != 0 {
		t.Fatalf("expected no slots, got %+v", got)
	}
}

func TestGenerateRejectsZeroDuration(t *testing.T) {
	start, end := fullDay(t)
	windows := []Window{{Start: mustTime(t, "09:00"), End: mustTime(t, "17:00")}}
	if _, err := Generate(windows, 0, nil, start, end); err != ErrInvalidDuration {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestGenerateIsPure(t *testing.T) {
	start, end := fullDay(t)
	windows := []Window{
		{Start: mustTime(t, "09:00"), End: mustTime(t, "13:00")},
		{Start: mustTime(t, "16:00"), End: mustTime(t, "20:00")},
	}
	booked := times(t, "09:20", "16:40")
	step := mustDuration(t, "00:20")

	first, err := Generate(windows, step, booked, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(windows, step, booked, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalTimes(first.Morning, second.Morning) ||
		!equalTimes(first.Afternoon, second.Afternoon) ||
		!equalTimes(first.Evening, second.Evening) {
		t.Fatalf("generator is not idempotent: %+v vs %+v", first, second)
	}
}

func TestWeekTimingsForDate(t *testing.T) {
	raw := []byte(`{"Monday":[{"start_time":"09:00","end_time":"13:00"}],"Wednesday":[{"start_time":"10:00","end_time":"12:00"},{"start_time":"17:00","end_time":"20:00"}]}`)
	wt, err := ParseWeekTimings(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	monday := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	if got := wt.ForDate(monday); len(got) != 1 || got[0].Start != mustTime(t, "09:00") {
		t.Fatalf("monday windows = %v", got)
	}

	wednesday := time.Date(2026, time.September, 9, 0, 0, 0, 0, time.UTC)
	if got := wt.ForDate(wednesday); len(got) != 2 {
		t.Fatalf("wednesday windows = %v", got)
	}

	sunday := time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC)
	if got := wt.ForDate(sunday); len(got) != 0 {
		t.Fatalf("expected no sunday windows, got %v", got)
	}
}

func TestParseWeekTimingsEmpty(t *testing.T) {
	wt, err := ParseWeekTimings(nil)
	if err != nil {
		t.Fatalf("parse nil: %v", err)
	}
	if len(wt) != 0 {
		t.Fatalf("expected empty schedule, got %v", wt)
	}
	if _, err := ParseWeekTimings([]byte(`{broken`)); err == nil {
		t.Fatal("expected error for malformed timings JSON")
	}
}

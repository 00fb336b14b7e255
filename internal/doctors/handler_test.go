package doctors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

type stubBookedSource struct {
	starts []timeslot.TimeOfDay
	err    error
}

func (s *stubBookedSource) BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error) {
	return s.starts, s.err
}

func mondayTimings(t *testing.T, windows string) timeslot.WeekTimings {
	t.Helper()
	wt, err := timeslot.ParseWeekTimings([]byte(`{"Monday":` + windows + `}`))
	if err != nil {
		t.Fatalf("parse timings: %v", err)
	}
	return wt
}

func newTimeSlotsRequest(doctorID, date string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/doctors/"+doctorID+"/time-slots?date="+date, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", doctorID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// 2026-09-07 is a Monday.
const testMonday = "2026-09-07"

func newHandlerWithDoctor(t *testing.T, duration string, booked *stubBookedSource) (*Handler, *InMemoryRepository) {
	t.Helper()
	repo := NewInMemoryRepository()
	repo.Put(&Doctor{
		ID:                   "doc-1",
		FullName:             "Dr. Meera Kulkarni",
		IsVerified:           true,
		ConsultationDuration: duration,
	})
	h := NewHandler(repo, booked, nil, logging.Default(), "00:00", "23:59")
	return h, repo
}

func TestTimeSlotsSingleEstablishment(t *testing.T) {
	h, repo := newHandlerWithDoctor(t, "00:30", &stubBookedSource{})
	repo.PutRelation("doc-1", EstablishmentRelation{
		EstablishmentID: "est-1",
		IsOwner:         true,
		Timings:         mondayTimings(t, `[{"start_time":"09:00","end_time":"11:00"}]`),
	})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", testMonday))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var buckets struct {
		Morning   []string `json:"morning"`
		Afternoon []string `json:"afternoon"`
		Evening   []string `json:"evening"`
	}
	if err := json.NewDecoder(w.Body).Decode(&buckets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if len(buckets.Morning) != len(want) {
		t.Fatalf("morning = %v, want %v", buckets.Morning, want)
	}
	for i := range want {
		if buckets.Morning[i] != want[i] {
			t.Fatalf("morning = %v, want %v", buckets.Morning, want)
		}
	}
	if len(buckets.Afternoon) != 0 || len(buckets.Evening) != 0 {
		t.Fatalf("expected empty afternoon/evening, got %v / %v", buckets.Afternoon, buckets.Evening)
	}
}

func TestTimeSlotsSkipsBookedStart(t *testing.T) {
	booked, err := timeslot.ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatal(err)
	}
	h, repo := newHandlerWithDoctor(t, "00:30", &stubBookedSource{starts: []timeslot.TimeOfDay{booked}})
	repo.PutRelation("doc-1", EstablishmentRelation{
		EstablishmentID: "est-1",
		Timings:         mondayTimings(t, `[{"start_time":"09:00","end_time":"11:00"}]`),
	})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", testMonday))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var buckets struct {
		Morning []string `json:"morning"`
	}
	if err := json.NewDecoder(w.Body).Decode(&buckets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"09:00", "10:00", "10:30"}
	if len(buckets.Morning) != len(want) {
		t.Fatalf("morning = %v, want %v", buckets.Morning, want)
	}
	for i := range want {
		if buckets.Morning[i] != want[i] {
			t.Fatalf("morning = %v, want %v", buckets.Morning, want)
		}
	}
}

func TestTimeSlotsMultiEstablishment(t *testing.T) {
	h, repo := newHandlerWithDoctor(t, "01:00", &stubBookedSource{})
	repo.PutRelation("doc-1", EstablishmentRelation{
		EstablishmentID: "est-1",
		Timings:         mondayTimings(t, `[{"start_time":"09:00","end_time":"11:00"}]`),
	})
	repo.PutRelation("doc-1", EstablishmentRelation{
		EstablishmentID: "est-2",
		Timings:         mondayTimings(t, `[{"start_time":"16:00","end_time":"19:00"}]`),
	})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", testMonday))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var perEst map[string]struct {
		Morning []string `json:"morning"`
		Evening []string `json:"evening"`
	}
	if err := json.NewDecoder(w.Body).Decode(&perEst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(perEst) != 2 {
		t.Fatalf("expected 2 establishments, got %d", len(perEst))
	}
	if got := perEst["est-1"].Morning; len(got) != 2 || got[0] != "09:00" || got[1] != "10:00" {
		t.Fatalf("est-1 morning = %v", got)
	}
	if got := perEst["est-2"].Evening; len(got) != 3 || got[0] != "16:00" {
		t.Fatalf("est-2 evening = %v", got)
	}
}

func TestTimeSlotsNoRelations(t *testing.T) {
	h, _ := newHandlerWithDoctor(t, "00:30", &stubBookedSource{})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", testMonday))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var buckets struct {
		Morning   []string `json:"morning"`
		Afternoon []string `json:"afternoon"`
		Evening   []string `json:"evening"`
	}
	if err := json.NewDecoder(w.Body).Decode(&buckets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buckets.Morning == nil || buckets.Afternoon == nil || buckets.Evening == nil {
		t.Fatalf("all buckets must be present: %s", w.Body.String())
	}
}

func TestTimeSlotsInvalidDuration(t *testing.T) {
	h, repo := newHandlerWithDoctor(t, "garbage", &stubBookedSource{})
	repo.PutRelation("doc-1", EstablishmentRelation{
		EstablishmentID: "est-1",
		Timings:         mondayTimings(t, `[{"start_time":"09:00","end_time":"11:00"}]`),
	})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", testMonday))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTimeSlotsBadDate(t *testing.T) {
	h, _ := newHandlerWithDoctor(t, "00:30", &stubBookedSource{})

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("doc-1", "07-09-2026"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTimeSlotsUnknownDoctor(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), &stubBookedSource{}, nil, logging.Default(), "00:00", "23:59")

	w := httptest.NewRecorder()
	h.TimeSlots(w, newTimeSlotsRequest("missing", testMonday))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestProfileCompletionEndpoint(t *testing.T) {
	h, _ := newHandlerWithDoctor(t, "00:30", &stubBookedSource{})

	req := httptest.NewRequest(http.MethodGet, "/doctors/doc-1/profile-completion", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "doc-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.ProfileCompletion(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ProfileCompletionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ProfileCompletionPercentage <= 0 || resp.ProfileCompletionPercentage >= 100 {
		t.Fatalf("percentage = %d, want partial completion", resp.ProfileCompletionPercentage)
	}
}

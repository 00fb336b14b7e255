package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai252/Cliniify-marketplaces/internal/observability/metrics"
	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// BookedSlotSource yields the start times already taken on a doctor's
// calendar for a date. Implemented by the appointments repository; only
// active appointments occupy slots.
type BookedSlotSource interface {
	BookedStarts(ctx context.Context, doctorID string, date time.Time) ([]timeslot.TimeOfDay, error)
}

// Handler handles HTTP requests for doctor profiles and availability.
type Handler struct {
	repo       Repository
	booked     BookedSlotSource
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	rangeStart timeslot.TimeOfDay
	rangeEnd   timeslot.TimeOfDay
}

// NewHandler creates a new doctors handler. rangeStart/rangeEnd bound every
// availability walk ("00:00".."23:59" keeps the whole day).
func NewHandler(repo Repository, booked BookedSlotSource, m *metrics.BookingMetrics, logger *logging.Logger, rangeStart, rangeEnd string) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	start, err := timeslot.ParseTimeOfDay(rangeStart)
	if err != nil {
		logger.Warn("invalid slot range start, using 00:00", "value", rangeStart)
		start = 0
	}
	end, err := timeslot.ParseTimeOfDay(rangeEnd)
	if err != nil {
		logger.Warn("invalid slot range end, using 23:59", "value", rangeEnd)
		end = 23*60 + 59
	}
	return &Handler{
		repo:       repo,
		booked:     booked,
		metrics:    m,
		logger:     logger,
		rangeStart: start,
		rangeEnd:   end,
	}
}

// Get handles GET /doctors/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doctor, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load doctor", "error", err, "id", id)
		http.Error(w, "failed to load doctor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

// TimeSlots handles GET /doctors/{id}/time-slots?date=YYYY-MM-DD requests.
// A doctor practicing at a single establishment gets one bucketed result;
// with several establishments the response is keyed by establishment id.
func (h *Handler) TimeSlots(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	id := chi.URLParam(r, "id")

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, ErrInvalidDate.Error(), http.StatusBadRequest)
			return
		}
		date = parsed
	}

	doctor, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load doctor", "error", err, "id", id)
		http.Error(w, "failed to load doctor", http.StatusInternalServerError)
		return
	}

	duration, err := doctor.Duration()
	if err != nil {
		h.logger.Error("doctor has unusable consultation duration",
			"doctor_id", id, "duration", doctor.ConsultationDuration, "error", err)
		http.Error(w, "invalid consultation duration configured", http.StatusBadRequest)
		return
	}

	relations, err := h.repo.Relations(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load doctor relations", "error", err, "id", id)
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	booked, err := h.booked.BookedStarts(r.Context(), id, date)
	if err != nil {
		h.logger.Error("failed to load booked slots", "error", err, "id", id)
		http.Error(w, "failed to load availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if len(relations) <= 1 {
		var windows []timeslot.Window
		if len(relations) == 1 {
			windows = relations[0].Timings.ForDate(date)
		}
		buckets, err := timeslot.Generate(windows, duration, booked, h.rangeStart, h.rangeEnd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.metrics.ObserveSlotGeneration(time.Since(started).Seconds())
		json.NewEncoder(w).Encode(buckets)
		return
	}

	perEstablishment := make(map[string]timeslot.Buckets, len(relations))
	for _, rel := range relations {
		buckets, err := timeslot.Generate(rel.Timings.ForDate(date), duration, booked, h.rangeStart, h.rangeEnd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		perEstablishment[rel.EstablishmentID] = buckets
	}
	h.metrics.ObserveSlotGeneration(time.Since(started).Seconds())
	json.NewEncoder(w).Encode(perEstablishment)
}

// ProfileCompletionResponse reports how filled-in a doctor profile is.
type ProfileCompletionResponse struct {
	ProfileCompletionPercentage int      `json:"profile_completion_percentage"`
	MissingFields               []string `json:"missing_fields,omitempty"`
}

// ProfileCompletion handles GET /doctors/{id}/profile-completion requests
func (h *Handler) ProfileCompletion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doctor, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			http.Error(w, "doctor not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load doctor", "error", err, "id", id)
		http.Error(w, "failed to load doctor", http.StatusInternalServerError)
		return
	}

	resp := ProfileCompletionResponse{
		ProfileCompletionPercentage: CompletionPercent(doctor),
		MissingFields:               MissingFields(doctor),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// UpdateTimingsRequest replaces the weekly windows of one relation.
type UpdateTimingsRequest struct {
	EstablishmentID string               `json:"establishment_id"`
	Timings         timeslot.WeekTimings `json:"timings"`
}

// UpdateTimings handles PATCH /doctors/{id}/timings requests
func (h *Handler) UpdateTimings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateTimingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.EstablishmentID == "" {
		http.Error(w, "establishment_id is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateTimings(r.Context(), id, req.EstablishmentID, req.Timings); err != nil {
		if errors.Is(err, ErrRelationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update timings", "error", err, "doctor_id", id)
		http.Error(w, "failed to update timings", http.StatusInternalServerError)
		return
	}

	h.logger.Info("timings replaced", "doctor_id", id, "establishment_id", req.EstablishmentID)
	w.WriteHeader(http.StatusNoContent)
}

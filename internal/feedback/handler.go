package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Handler exposes feedback over HTTP.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

type createRequest struct {
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create handles POST /feedback requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.DoctorID == "" || req.PatientID == "" {
		http.Error(w, "doctor_id and patient_id are required", http.StatusBadRequest)
		return
	}

	fb := &Feedback{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.repo.Create(r.Context(), fb); err != nil {
		if errors.Is(err, ErrInvalidRating) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create feedback", "error", err)
		http.Error(w, "failed to create feedback", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(fb)
}

// ListForDoctor handles GET /doctors/{id}/feedback requests
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := chi.URLParam(r, "id")

	items, err := h.repo.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list feedback", "error", err, "doctor_id", doctorID)
		http.Error(w, "failed to list feedback", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []*Feedback{}
	}

	avg, _, err := h.repo.AverageForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to compute average rating", "error", err, "doctor_id", doctorID)
		http.Error(w, "failed to list feedback", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"average_rating": avg,
		"feedbacks":      items,
	})
}

type replyRequest struct {
	Reply string `json:"reply"`
}

// Reply handles POST /feedback/{id}/reply requests
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Reply == "" {
		http.Error(w, "reply is required", http.StatusBadRequest)
		return
	}

	if err := h.repo.Reply(r.Context(), id, req.Reply); err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to reply to feedback", "error", err, "id", id)
		http.Error(w, "failed to reply", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

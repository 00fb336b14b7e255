package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rai252/Cliniify-marketplaces/internal/timeslot"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Handler exposes appointment booking over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type createRequest struct {
	PatientID       string `json:"patient_id"`
	DoctorID        string `json:"doctor_id"`
	EstablishmentID string `json:"establishment_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	Message         string `json:"message"`
}

// Create handles POST /appointments requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	start, err := timeslot.ParseTimeOfDay(req.StartTime)
	if err != nil {
		http.Error(w, "start_time must be HH:MM", http.StatusBadRequest)
		return
	}

	appt, err := h.svc.Book(r.Context(), BookRequest{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		EstablishmentID: req.EstablishmentID,
		Date:            date,
		StartTime:       start,
		Message:         req.Message,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

type updateRequest struct {
	Status        *string `json:"status"`
	Date          *string `json:"date"`
	StartTime     *string `json:"start_time"`
	Message       *string `json:"message"`
	IsPaid        *bool   `json:"is_paid"`
	IsRescheduled bool    `json:"is_rescheduled"`
}

// Update handles PATCH /appointments/{id} requests
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upd := UpdateRequest{
		Message:       req.Message,
		IsPaid:        req.IsPaid,
		IsRescheduled: req.IsRescheduled,
	}
	if req.Status != nil {
		status, err := ParseStatus(*req.Status)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.Status = &status
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		upd.Date = &date
	}
	if req.StartTime != nil {
		start, err := timeslot.ParseTimeOfDay(*req.StartTime)
		if err != nil {
			http.Error(w, "start_time must be HH:MM", http.StatusBadRequest)
			return
		}
		upd.StartTime = &start
	}

	appt, err := h.svc.Update(r.Context(), id, upd)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// Get handles GET /appointments/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// List handles GET /appointments requests, filtered by patient_id
// and/or doctor_id query params.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	doctorID := r.URL.Query().Get("doctor_id")

	appts, err := h.svc.List(r.Context(), patientID, doctorID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if appts == nil {
		appts = []*Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appts)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case IsConflict(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case NotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, timeslot.ErrInvalidDuration):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("appointment operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

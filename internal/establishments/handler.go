package establishments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Handler exposes establishments and the staff workflow over HTTP.
type Handler struct {
	repo   Repository
	staff  *StaffService
	logger *logging.Logger
}

func NewHandler(repo Repository, staff *StaffService, logger *logging.Logger) *Handler {
	return &Handler{repo: repo, staff: staff, logger: logger}
}

// Get handles GET /establishments/{id} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	e, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEstablishmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load establishment", "error", err, "id", id)
		http.Error(w, "failed to load establishment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(e)
}

// SearchEstablishments handles GET /staff/search-establishment requests,
// matching by name and city so doctors can find a workplace to join.
func (h *Handler) SearchEstablishments(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	city := r.URL.Query().Get("city")
	if name == "" && city == "" {
		http.Error(w, "name or city is required", http.StatusBadRequest)
		return
	}

	results, err := h.repo.Search(r.Context(), name, city)
	if err != nil {
		h.logger.Error("establishment search failed", "error", err, "name", name, "city", city)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []*Establishment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

type staffRequestBody struct {
	EstablishmentID string `json:"establishment_id"`
	DoctorID        string `json:"doctor_id"`
}

// SendStaffRequest handles POST /staff/send-request requests
func (h *Handler) SendStaffRequest(w http.ResponseWriter, r *http.Request) {
	var body staffRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.EstablishmentID == "" || body.DoctorID == "" {
		http.Error(w, "establishment_id and doctor_id are required", http.StatusBadRequest)
		return
	}

	req, err := h.staff.SendRequest(r.Context(), body.EstablishmentID, body.DoctorID)
	if err != nil {
		h.writeStaffError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(req)
}

// PendingStaffRequests handles GET /staff/requests requests for the
// doctor named by the doctor_id query param.
func (h *Handler) PendingStaffRequests(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	if doctorID == "" {
		http.Error(w, "doctor_id is required", http.StatusBadRequest)
		return
	}

	requests, err := h.staff.PendingForDoctor(r.Context(), doctorID)
	if err != nil {
		h.logger.Error("failed to list staff requests", "error", err, "doctor_id", doctorID)
		http.Error(w, "failed to list staff requests", http.StatusInternalServerError)
		return
	}
	if requests == nil {
		requests = []*StaffRequest{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// AcceptStaffRequest handles PATCH /staff/requests/{id}/accept requests
func (h *Handler) AcceptStaffRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveStaffRequest(w, r, h.staff.Accept)
}

// RejectStaffRequest handles PATCH /staff/requests/{id}/reject requests
func (h *Handler) RejectStaffRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveStaffRequest(w, r, h.staff.Reject)
}

func (h *Handler) resolveStaffRequest(w http.ResponseWriter, r *http.Request, resolve func(ctx context.Context, id string) (*StaffRequest, error)) {
	id := chi.URLParam(r, "id")

	req, err := resolve(r.Context(), id)
	if err != nil {
		h.writeStaffError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(req)
}

func (h *Handler) writeStaffError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEstablishmentNotFound),
		errors.Is(err, ErrStaffRequestNotFound),
		errors.Is(err, doctors.ErrDoctorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateStaffRequest),
		errors.Is(err, ErrAlreadyStaff),
		errors.Is(err, ErrRequestAlreadyResolved):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("staff request operation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

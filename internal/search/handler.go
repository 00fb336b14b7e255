package search

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Handler exposes search and suggestions over HTTP.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Search handles GET /search?q=&location= requests. Location accepts a
// comma-separated list of tokens.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	rawLocation := strings.TrimSpace(r.URL.Query().Get("location"))
	if query == "" || rawLocation == "" {
		http.Error(w, "q and location are required", http.StatusBadRequest)
		return
	}

	var locations []string
	for _, token := range strings.Split(rawLocation, ",") {
		if token = strings.TrimSpace(token); token != "" {
			locations = append(locations, token)
		}
	}

	results, err := h.svc.Search(r.Context(), query, locations)
	if err != nil {
		h.logger.Error("search failed", "error", err, "query", query)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []Result{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Suggestions handles GET /suggestions?q= requests
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	suggestions, err := h.svc.Suggest(r.Context(), term)
	if err != nil {
		h.logger.Error("suggestions failed", "error", err, "term", term)
		http.Error(w, "suggestions failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(suggestions)
}

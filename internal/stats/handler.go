package stats

import (
	"encoding/json"
	"net/http"

	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

// Handler serves the operational overview.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Overview handles GET /stats/appointments requests
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.Overview(r.Context())
	if err != nil {
		h.logger.Error("failed to build stats overview", "error", err)
		http.Error(w, "failed to build overview", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}

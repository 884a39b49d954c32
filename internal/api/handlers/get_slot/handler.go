package get_slot

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]

	result := h.service.Get(r.Context(), guideID, slotID)
	if !result.Success {
		h.logger.Warn("GET /availability/%s - Failed: guide_id=%s, kind=%s, message=%s", slotID, guideID, result.Kind, result.Message)
	}

	handlers.RespondResult(w, http.StatusOK, result)
}

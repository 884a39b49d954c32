package toggle_slot

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
)

const msgInvalidRequestBody = "Invalid request body"

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

// Handle PATCH /api/v1/availability/{id}/toggle
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]

	var req ToggleSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /availability/%s/toggle - Invalid request body: guide_id=%s, error=%v", slotID, guideID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result := h.service.Toggle(r.Context(), guideID, slotID, *req.IsAvailable)
	if !result.Success {
		h.logger.Warn("PATCH /availability/%s/toggle - Rejected: guide_id=%s, kind=%s, message=%s", slotID, guideID, result.Kind, result.Message)
	} else {
		h.logger.Info("PATCH /availability/%s/toggle - isAvailable=%t: guide_id=%s", slotID, *req.IsAvailable, guideID)
	}

	handlers.RespondResult(w, http.StatusOK, result)
}

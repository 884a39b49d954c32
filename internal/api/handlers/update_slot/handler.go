package update_slot

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

// Handle PATCH /api/v1/availability/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}
	slotID := mux.Vars(r)["id"]

	var req UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /availability/%s - Invalid request body: guide_id=%s, error=%v", slotID, guideID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("PATCH /availability/%s - Validation failed: guide_id=%s, error=%v", slotID, guideID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /availability/%s - Capacity mismatch: guide_id=%s", slotID, guideID)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result := h.service.Update(r.Context(), guideID, slotID, serviceReq)
	if !result.Success {
		h.logger.Warn("PATCH /availability/%s - Rejected: guide_id=%s, kind=%s, message=%s", slotID, guideID, result.Kind, result.Message)
	} else {
		h.logger.Info("PATCH /availability/%s - Slot updated: guide_id=%s", slotID, guideID)
	}

	handlers.RespondResult(w, http.StatusOK, result)
}

package create_slot

import (
	"net/http"

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

// Handle POST /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}

	var req CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability - Invalid request body: guide_id=%s, error=%v", guideID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.ValidateStruct(&req); err != nil {
		h.logger.Warn("POST /availability - Validation failed: guide_id=%s, error=%v", guideID, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest()
	if err != nil {
		h.logger.Warn("POST /availability - Capacity mismatch: guide_id=%s", guideID)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result := h.service.Create(r.Context(), guideID, serviceReq)
	if !result.Success {
		h.logger.Warn("POST /availability - Rejected: guide_id=%s, kind=%s, message=%s", guideID, result.Kind, result.Message)
		handlers.RespondResult(w, http.StatusCreated, result)
		return
	}

	h.logger.Info("POST /availability - Slot created: guide_id=%s, slot_id=%s", guideID, result.Data.ID)
	handlers.RespondResult(w, http.StatusCreated, result)
}

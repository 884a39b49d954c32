package list_slots

import (
	"net/http"
	"strconv"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
)

const msgInvalidRefresh = "refresh must be true or false"

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

// Handle GET /api/v1/availability?refresh=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}

	refresh := false
	if raw := r.URL.Query().Get("refresh"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid refresh=%q: guide_id=%s", raw, guideID)
			handlers.RespondBadRequest(w, msgInvalidRefresh)
			return
		}
		refresh = parsed
	}

	result := h.service.List(r.Context(), guideID, refresh)
	if !result.Success {
		h.logger.Warn("GET /availability - Failed: guide_id=%s, kind=%s, message=%s", guideID, result.Kind, result.Message)
	} else {
		h.logger.Info("GET /availability - %d slots: guide_id=%s, stale=%t", result.Data.Total, guideID, result.Data.Stale)
	}

	handlers.RespondResult(w, http.StatusOK, result)
}

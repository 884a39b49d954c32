package get_calendar

import (
	"net/http"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
)

const msgInvalidDate = "Invalid date, expected YYYY-MM-DD"

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

// Handle GET /api/v1/availability/calendar?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}

	var anchor *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /availability/calendar - Invalid date=%q: guide_id=%s", raw, guideID)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		anchor = &date
	}

	result := h.service.Calendar(r.Context(), guideID, anchor)
	if !result.Success {
		h.logger.Warn("GET /availability/calendar - Failed: guide_id=%s, kind=%s, message=%s", guideID, result.Kind, result.Message)
	}

	handlers.RespondResult(w, http.StatusOK, result)
}

package slot_events

import (
	"net/http"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
)

type Handler struct {
	hub Subscriber
}

func NewHandler(hub Subscriber) *Handler {
	return &Handler{hub: hub}
}

// Handle GET /api/v1/availability/events (websocket)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	guideID, ok := handlers.GuideID(w, r)
	if !ok {
		return
	}

	h.hub.ServeWS(w, r, guideID)
}

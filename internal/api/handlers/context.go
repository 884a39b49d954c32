package handlers

import (
	"net/http"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
)

const msgUnauthorized = "Authentication required"

// GuideID достаёт id гида, положенный middleware.Auth.
// Если его нет, отвечает 401 и возвращает false.
func GuideID(w http.ResponseWriter, r *http.Request) (string, bool) {
	creds, ok := auth.FromContext(r.Context())
	if !ok || creds.GuideID == "" {
		RespondUnauthorized(w, msgUnauthorized)
		return "", false
	}
	return creds.GuideID, true
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
)

// HeaderUserID заголовок с id гида
const HeaderUserID = "X-User-ID"

const (
	msgMissingUserID  = "Authentication required"
	msgMissingSession = "Session expired. Please log in again"
)

// Auth проверяет, что у запроса есть id гида и сессионная cookie.
// Все cookie запроса сохраняются в контексте, клиент внешнего API отправляет их дальше.
func Auth(cookieName string, log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guideID := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if guideID == "" {
				log.Warn("%s %s - Missing %s header", r.Method, r.URL.Path, HeaderUserID)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			session, err := r.Cookie(cookieName)
			if err != nil || session.Value == "" {
				log.Warn("%s %s - Missing session cookie: guide_id=%s", r.Method, r.URL.Path, guideID)
				handlers.RespondUnauthorized(w, msgMissingSession)
				return
			}

			creds := auth.Credentials{
				GuideID:   guideID,
				Cookies:   r.Cookies(),
				RequestID: RequestIDFromContext(r.Context()),
			}
			next.ServeHTTP(w, r.WithContext(auth.WithCredentials(r.Context(), creds)))
		})
	}
}

package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
)

// Recover перехватывает панику обработчика и отвечает 500 в общем конверте.
// http.ErrAbortHandler пробрасывается дальше, его обрабатывает net/http
func Recover(log Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.Error("%s %s - Panic recovered: request_id=%s, panic=%v\n%s",
					r.Method, r.URL.Path, RequestIDFromContext(r.Context()), rec, debug.Stack())
				handlers.RespondInternalError(w)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

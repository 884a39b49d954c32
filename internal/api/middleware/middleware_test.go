package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, logger.LevelError)
}

func TestAuth(t *testing.T) {
	var got auth.Credentials
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequestID(Auth("accessToken", quietLogger())(next))

	t.Run("missing user id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgMissingUserID)
	})

	t.Run("missing session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
		req.Header.Set(HeaderUserID, "guide-1")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgMissingSession)
	})

	t.Run("credentials stored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
		req.Header.Set(HeaderUserID, "guide-1")
		req.Header.Set(HeaderRequestID, "req-42")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "tok"})
		req.AddCookie(&http.Cookie{Name: "refreshToken", Value: "ref"})
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "guide-1", got.GuideID)
		assert.Equal(t, "req-42", got.RequestID)
		assert.Len(t, got.Cookies, 2)
		assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
	})
}

func TestRequestID_Generated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, quietLogger())
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(guideID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithCredentials(req.Context(), auth.Credentials{GuideID: guideID}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("g1"))
	assert.Equal(t, http.StatusOK, call("g1"))
	assert.Equal(t, http.StatusTooManyRequests, call("g1"))
	// у другого гида свой лимит
	assert.Equal(t, http.StatusOK, call("g2"))

	removed := rl.evict(time.Now().Add(time.Hour), time.Minute)
	assert.Equal(t, 2, removed)
	assert.Equal(t, http.StatusOK, call("g1"))
}

func TestRecover(t *testing.T) {
	h := RequestID(Recover(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)
	rec := httptest.NewRecorder()

	require.NotPanics(t, func() { h.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	h := Recover(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil)

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), req)
	})
}

func TestRouteNotFound(t *testing.T) {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(handlers.RouteNotFound)
	r.HandleFunc("/api/v1/availability", func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

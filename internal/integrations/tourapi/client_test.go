package tourapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/ptr"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 2*time.Second, logger.NewWithWriter(io.Discard, logger.LevelError), nil)
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestClient_ListMy(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/availability/my", r.URL.Path)

		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "abc", cookie.Value)
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		writeEnvelope(w, http.StatusOK, true, "", []map[string]interface{}{
			{
				"id":             "a1",
				"guideId":        "g1",
				"specificDate":   "2026-10-17T00:00:00.000Z",
				"startTime":      "09:00 AM",
				"endTime":        "11:30 AM",
				"durationMins":   999,
				"maxGroupSize":   8,
				"pricePerPerson": "25.50",
				"isAvailable":    true,
				"todaysTourist":  map[string]interface{}{"count": 3, "maxGuests": 10},
			},
			{
				"id":           "broken",
				"specificDate": "not-a-date",
				"startTime":    "09:00",
				"endTime":      "10:00",
			},
		})
	})

	ctx := auth.WithCredentials(context.Background(), auth.Credentials{
		GuideID:   "g1",
		Cookies:   []*http.Cookie{{Name: "session", Value: "abc"}},
		RequestID: "req-1",
	})

	slots, err := client.ListMy(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	slot := slots[0]
	assert.Equal(t, "a1", slot.ID)
	assert.Equal(t, "2026-10-17", slot.DateKey())
	assert.Equal(t, types.TimeString("09:00"), slot.StartTime)
	assert.Equal(t, types.TimeString("11:30"), slot.EndTime)
	assert.Equal(t, 150, slot.DurationMins)
	assert.Equal(t, 10, slot.Capacity)
	assert.Equal(t, 3, slot.TouristCount)
	assert.InDelta(t, 25.5, slot.PricePerPerson, 0.0001)
	assert.True(t, slot.IsAvailable)
}

func TestClient_ListMy_NullData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "No availability found", nil)
	})

	slots, err := client.ListMy(context.Background())

	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestClient_Create_NullDataIsInvalid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusCreated, true, "Created", nil)
	})

	slot := &domain.AvailabilitySlot{
		SpecificDate: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		StartTime:    types.TimeString("09:00"),
		EndTime:      types.TimeString("10:00"),
		Capacity:     4,
	}
	_, err := client.Create(context.Background(), slot)

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_ListMy_KeepsOwner(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", []map[string]interface{}{{
			"id":           "a1",
			"guideId":      "guide-A",
			"specificDate": "2026-10-17",
			"startTime":    "09:00",
			"endTime":      "10:00",
			"maxGroupSize": 3,
		}})
	})

	slots, err := client.ListMy(context.Background())

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "guide-A", slots[0].GuideID)
}

func TestClient_TimeoutOnlyWithoutCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeEnvelope(w, http.StatusOK, true, "", []interface{}{})
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, 50*time.Millisecond, logger.NewWithWriter(io.Discard, logger.LevelError), nil)

	_, err := client.ListMy(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = client.ListMy(ctx)
	assert.NoError(t, err)
}

func TestClient_Create(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/availability", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body CreateAvailabilityBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2026-10-18", body.SpecificDate)
		assert.Equal(t, "14:00", body.StartTime)
		assert.Equal(t, "16:00", body.EndTime)
		assert.Equal(t, 120, body.DurationMins)
		assert.Equal(t, 6, body.MaxGroupSize)
		assert.Equal(t, 6, body.TodaysTourist.MaxGuests)

		writeEnvelope(w, http.StatusCreated, true, "Created", map[string]interface{}{
			"id":             "new-1",
			"guideId":        "g1",
			"specificDate":   body.SpecificDate,
			"startTime":      body.StartTime,
			"endTime":        body.EndTime,
			"maxGroupSize":   body.MaxGroupSize,
			"pricePerPerson": body.PricePerPerson,
			"isAvailable":    body.IsAvailable,
		})
	})

	slot := &domain.AvailabilitySlot{
		SpecificDate:   time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
		StartTime:      "14:00",
		EndTime:        "16:00",
		DurationMins:   120,
		Capacity:       6,
		PricePerPerson: 40,
		IsAvailable:    true,
	}

	created, err := client.Create(context.Background(), slot)
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, 6, created.Capacity)
	assert.Equal(t, 0, created.TouristCount)
}

func TestClient_Update_SendsOnlyChangedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/availability/a1", r.URL.Path)

		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]interface{}{"isAvailable": false}, raw)

		writeEnvelope(w, http.StatusOK, true, "", map[string]interface{}{
			"id":           "a1",
			"specificDate": "2026-10-17",
			"startTime":    "09:00",
			"endTime":      "10:00",
			"maxGroupSize": 4,
			"isAvailable":  false,
		})
	})

	updated, err := client.Update(context.Background(), "a1", &domain.SlotPatch{IsAvailable: ptr.Ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, 60, updated.DurationMins)
}

func TestClient_Delete(t *testing.T) {
	t.Run("no content", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		})
		assert.NoError(t, client.Delete(context.Background(), "a1"))
	})

	t.Run("envelope without data", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "Deleted", nil)
		})
		assert.NoError(t, client.Delete(context.Background(), "a1"))
	})
}

func TestClient_Errors(t *testing.T) {
	t.Run("remote message is kept verbatim", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusConflict, false, "Slot overlaps existing availability", nil)
		})

		err := client.Delete(context.Background(), "a1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRemote)

		var remote *RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, http.StatusConflict, remote.StatusCode)
		assert.Equal(t, "Slot overlaps existing availability", remote.Message)
	})

	t.Run("success false with 200", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, false, "Not allowed", nil)
		})

		_, err := client.ListMy(context.Background())
		var remote *RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, "Not allowed", remote.Message)
	})

	t.Run("non json error body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})

		_, err := client.ListMy(context.Background())
		var remote *RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, http.StatusText(http.StatusBadGateway), remote.Message)
	})

	t.Run("invalid json on success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("{not json"))
		})

		_, err := client.ListMy(context.Background())
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		client := NewClient(url, time.Second, logger.NewWithWriter(io.Discard, logger.LevelError), nil)
		_, err := client.ListMy(context.Background())
		assert.ErrorIs(t, err, ErrNetwork)
	})
}

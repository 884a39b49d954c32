package delete_slot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
)

type fakeService struct {
	guideID string
	id      string
	result  models.Result[*models.DeleteSlotResponse]
}

func (f *fakeService) Delete(_ context.Context, guideID, id string) models.Result[*models.DeleteSlotResponse] {
	f.guideID, f.id = guideID, id
	return f.result
}

func TestHandle(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)

	tests := []struct {
		name        string
		result      models.Result[*models.DeleteSlotResponse]
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "deleted",
			result:      models.OK("Availability deleted", &models.DeleteSlotResponse{ID: "slot-7"}),
			wantStatus:  http.StatusOK,
			wantMessage: "Availability deleted",
		},
		{
			name:        "slot has tourists",
			result:      models.Fail[*models.DeleteSlotResponse](domain.KindConflict, "Cannot delete availability with tourists"),
			wantStatus:  http.StatusConflict,
			wantMessage: "Cannot delete availability with tourists",
		},
		{
			name:        "not found",
			result:      models.Fail[*models.DeleteSlotResponse](domain.KindNotFound, "Availability not found"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Availability not found",
		},
		{
			name:        "network",
			result:      models.Fail[*models.DeleteSlotResponse](domain.KindNetwork, "Network error"),
			wantStatus:  http.StatusServiceUnavailable,
			wantMessage: "Network error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{result: tt.result}
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/availability/slot-7", nil)
			req = req.WithContext(auth.WithCredentials(req.Context(), auth.Credentials{GuideID: "guide-1"}))
			req = mux.SetURLVars(req, map[string]string{"id": "slot-7"})
			rec := httptest.NewRecorder()

			NewHandler(svc, log).Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "guide-1", svc.guideID)
			assert.Equal(t, "slot-7", svc.id)

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.result.Success, body.Success)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

package create_slot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
)

type fakeService struct {
	got    *models.CreateSlotRequest
	result models.Result[*models.SlotResponse]
}

func (f *fakeService) Create(_ context.Context, _ string, req *models.CreateSlotRequest) models.Result[*models.SlotResponse] {
	f.got = req
	return f.result
}

func newRequest(body string, withAuth bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/availability", strings.NewReader(body))
	if withAuth {
		req = req.WithContext(auth.WithCredentials(req.Context(), auth.Credentials{GuideID: "guide-1"}))
	}
	return req
}

func TestHandle(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)
	valid := `{"specificDate":"2026-10-20","startTime":"09:00 AM","endTime":"05:00 PM","maxGroupSize":8,"pricePerPerson":25,"durationMins":1}`

	tests := []struct {
		name       string
		body       string
		withAuth   bool
		result     models.Result[*models.SlotResponse]
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "created",
			body:       valid,
			withAuth:   true,
			result:     models.OK("Availability created", &models.SlotResponse{ID: "s1"}),
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
		{
			name:       "conflict from service",
			body:       valid,
			withAuth:   true,
			result:     models.Fail[*models.SlotResponse](domain.KindConflict, "Request already in progress"),
			wantStatus: http.StatusConflict,
			wantCalled: true,
		},
		{
			name:       "remote failure",
			body:       valid,
			withAuth:   true,
			result:     models.Fail[*models.SlotResponse](domain.KindRemote, "Guide profile not found"),
			wantStatus: http.StatusBadGateway,
			wantCalled: true,
		},
		{
			name:       "unknown field",
			body:       `{"specificDate":"2026-10-20","startTime":"09:00","endTime":"10:00","foo":1}`,
			withAuth:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing date",
			body:       `{"startTime":"09:00","endTime":"10:00","maxGuests":5}`,
			withAuth:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "capacity aliases disagree",
			body:       `{"specificDate":"2026-10-20","startTime":"09:00","endTime":"10:00","maxGuests":5,"maxGroupSize":8}`,
			withAuth:   true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "forbidden",
			body:       valid,
			withAuth:   true,
			result:     models.Fail[*models.SlotResponse](domain.KindForbidden, "Session does not belong to this guide"),
			wantStatus: http.StatusForbidden,
			wantCalled: true,
		},
		{
			name:       "no credentials",
			body:       valid,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{result: tt.result}
			rec := httptest.NewRecorder()

			NewHandler(svc, log).Handle(rec, newRequest(tt.body, tt.withAuth))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, svc.got != nil)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body, "success")
			assert.Contains(t, body, "message")
		})
	}
}

func TestToServiceRequest_CapacityAliases(t *testing.T) {
	five, eight, ten := 5, 8, 10

	tests := []struct {
		name    string
		req     CreateSlotRequest
		want    int
		wantErr bool
	}{
		{name: "maxGuests", req: CreateSlotRequest{MaxGuests: &five}, want: 5},
		{name: "maxGroupSize", req: CreateSlotRequest{MaxGroupSize: &eight}, want: 8},
		{name: "nested", req: CreateSlotRequest{TodaysTourist: &TouristCapacity{MaxGuests: &ten}}, want: 10},
		{name: "equal aliases", req: CreateSlotRequest{MaxGuests: &eight, MaxGroupSize: &eight}, want: 8},
		{name: "none", req: CreateSlotRequest{}, want: 0},
		{name: "mismatch", req: CreateSlotRequest{MaxGuests: &five, MaxGroupSize: &eight}, wantErr: true},
		{name: "nested mismatch", req: CreateSlotRequest{MaxGuests: &five, TodaysTourist: &TouristCapacity{MaxGuests: &ten}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.ToServiceRequest()
			if tt.wantErr {
				assert.ErrorIs(t, err, handlers.ErrCapacityMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MaxGuests)
		})
	}
}

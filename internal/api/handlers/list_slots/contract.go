package list_slots

import (
	"context"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	List(ctx context.Context, guideID string, forceRefresh bool) models.Result[*models.SlotListResponse]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package create_slot

import (
	"context"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	Create(ctx context.Context, guideID string, req *models.CreateSlotRequest) models.Result[*models.SlotResponse]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

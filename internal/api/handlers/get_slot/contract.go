package get_slot

import (
	"context"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	Get(ctx context.Context, guideID, id string) models.Result[*models.SlotResponse]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package toggle_slot

import (
	"context"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	Toggle(ctx context.Context, guideID, id string, isAvailable bool) models.Result[*models.SlotResponse]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

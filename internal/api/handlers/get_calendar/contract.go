package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

type AvailabilityService interface {
	Calendar(ctx context.Context, guideID string, anchor *time.Time) models.Result[*models.CalendarResponse]
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

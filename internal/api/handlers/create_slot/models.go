package create_slot

import (
	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/ptr"
)

// TouristCapacity вложенная вместимость (todaysTourist.maxGuests)
type TouristCapacity struct {
	MaxGuests *int `json:"maxGuests" validate:"omitempty,min=1,max=100"`
}

// CreateSlotRequest тело POST /availability.
// Вместимость принимается под любым из имён: maxGuests, maxGroupSize, todaysTourist.maxGuests.
// durationMins игнорируется и всегда вычисляется из времени.
type CreateSlotRequest struct {
	SpecificDate   string           `json:"specificDate" validate:"required"`
	StartTime      string           `json:"startTime" validate:"required"`
	EndTime        string           `json:"endTime" validate:"required"`
	DurationMins   *int             `json:"durationMins,omitempty"`
	MaxGuests      *int             `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=100"`
	MaxGroupSize   *int             `json:"maxGroupSize,omitempty" validate:"omitempty,min=1,max=100"`
	TodaysTourist  *TouristCapacity `json:"todaysTourist,omitempty"`
	PricePerPerson float64          `json:"pricePerPerson" validate:"gte=0"`
	IsAvailable    *bool            `json:"isAvailable,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса.
// Разные значения под разными именами вместимости отклоняются
func (r *CreateSlotRequest) ToServiceRequest() (*models.CreateSlotRequest, error) {
	var nested *int
	if r.TodaysTourist != nil {
		nested = r.TodaysTourist.MaxGuests
	}
	capacity, err := handlers.ResolveCapacity(r.MaxGuests, r.MaxGroupSize, nested)
	if err != nil {
		return nil, err
	}

	return &models.CreateSlotRequest{
		SpecificDate:   r.SpecificDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		MaxGuests:      ptr.Deref(capacity, 0),
		PricePerPerson: r.PricePerPerson,
		IsAvailable:    r.IsAvailable,
	}, nil
}

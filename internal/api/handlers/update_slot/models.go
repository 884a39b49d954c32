package update_slot

import (
	"github.com/m04kA/TourGuide-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
)

// TouristCapacity вложенная вместимость (todaysTourist.maxGuests)
type TouristCapacity struct {
	MaxGuests *int `json:"maxGuests" validate:"omitempty,min=1,max=100"`
}

// UpdateSlotRequest тело PATCH /availability/{id}, все поля необязательные
type UpdateSlotRequest struct {
	SpecificDate   *string          `json:"specificDate,omitempty"`
	StartTime      *string          `json:"startTime,omitempty"`
	EndTime        *string          `json:"endTime,omitempty"`
	DurationMins   *int             `json:"durationMins,omitempty"`
	MaxGuests      *int             `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=100"`
	MaxGroupSize   *int             `json:"maxGroupSize,omitempty" validate:"omitempty,min=1,max=100"`
	TodaysTourist  *TouristCapacity `json:"todaysTourist,omitempty"`
	PricePerPerson *float64         `json:"pricePerPerson,omitempty" validate:"omitempty,gte=0"`
	IsAvailable    *bool            `json:"isAvailable,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSlotRequest) ToServiceRequest() (*models.UpdateSlotRequest, error) {
	var nested *int
	if r.TodaysTourist != nil {
		nested = r.TodaysTourist.MaxGuests
	}
	capacity, err := handlers.ResolveCapacity(r.MaxGuests, r.MaxGroupSize, nested)
	if err != nil {
		return nil, err
	}

	return &models.UpdateSlotRequest{
		SpecificDate:   r.SpecificDate,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		MaxGuests:      capacity,
		PricePerPerson: r.PricePerPerson,
		IsAvailable:    r.IsAvailable,
	}, nil
}

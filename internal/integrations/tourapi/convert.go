package tourapi

import (
	"fmt"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/ptr"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/types"
)

// ToDomain конвертирует слот внешнего API в доменную модель.
// Вместимость берётся из todaysTourist.maxGuests, при его отсутствии из maxGroupSize.
// Длительность всегда пересчитывается из пары времён.
func ToDomain(a *Availability) (*domain.AvailabilitySlot, error) {
	date, err := domain.ParseDate(a.SpecificDate)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s: %v", ErrInvalidResponse, a.ID, err)
	}

	start, err := types.To24Hour(a.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s startTime: %v", ErrInvalidResponse, a.ID, err)
	}
	end, err := types.To24Hour(a.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s endTime: %v", ErrInvalidResponse, a.ID, err)
	}

	duration, err := domain.DurationMinutes(start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: slot id=%s: %v", ErrInvalidResponse, a.ID, err)
	}

	slot := &domain.AvailabilitySlot{
		ID:             a.ID,
		GuideID:        a.GuideID,
		SpecificDate:   date,
		StartTime:      start,
		EndTime:        end,
		DurationMins:   duration,
		PricePerPerson: float64(a.PricePerPerson),
		IsAvailable:    a.IsAvailable,
	}

	slot.Capacity = ptr.Deref(a.MaxGroupSize, 0)

	if tt := a.TodaysTourist; tt != nil {
		slot.Capacity = ptr.Deref(tt.MaxGuests, slot.Capacity)
		slot.TouristCount = ptr.Deref(tt.Count, 0)
		// isBooked без счётчика: считаем, что турист есть, чтобы не снять защиту от удаления
		if ptr.Deref(tt.IsBooked, false) && slot.TouristCount == 0 {
			slot.TouristCount = 1
		}
	}

	return slot, nil
}

// ToCreateBody формирует тело запроса создания. Вместимость пишется в оба поля API
func ToCreateBody(slot *domain.AvailabilitySlot) CreateAvailabilityBody {
	return CreateAvailabilityBody{
		SpecificDate:   slot.DateKey(),
		StartTime:      slot.StartTime.String(),
		EndTime:        slot.EndTime.String(),
		DurationMins:   slot.DurationMins,
		MaxGroupSize:   slot.Capacity,
		PricePerPerson: slot.PricePerPerson,
		IsAvailable:    slot.IsAvailable,
		TodaysTourist:  TouristCapacity{MaxGuests: slot.Capacity},
	}
}

// ToUpdateBody формирует тело частичного обновления
func ToUpdateBody(patch *domain.SlotPatch) UpdateAvailabilityBody {
	var body UpdateAvailabilityBody

	if patch.SpecificDate != nil {
		date := patch.SpecificDate.Format(domain.DateFormat)
		body.SpecificDate = &date
	}
	if patch.StartTime != nil {
		start := patch.StartTime.String()
		body.StartTime = &start
	}
	if patch.EndTime != nil {
		end := patch.EndTime.String()
		body.EndTime = &end
	}
	if patch.DurationMins != nil {
		duration := *patch.DurationMins
		body.DurationMins = &duration
	}
	if patch.Capacity != nil {
		capacity := *patch.Capacity
		body.MaxGroupSize = &capacity
		body.TodaysTourist = &TouristCapacity{MaxGuests: capacity}
	}
	if patch.PricePerPerson != nil {
		price := *patch.PricePerPerson
		body.PricePerPerson = &price
	}
	if patch.IsAvailable != nil {
		available := *patch.IsAvailable
		body.IsAvailable = &available
	}

	return body
}

package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/types"
)

// Сообщения валидации
const (
	msgDateRequired     = "Date is required"
	msgDateInvalid      = "Invalid date, expected YYYY-MM-DD"
	msgDateOutOfHorizon = "Date must be within the next 7 days"
	msgStartRequired    = "Start time is required"
	msgEndRequired      = "End time is required"
	msgStartInvalid     = "Invalid start time"
	msgEndInvalid       = "Invalid end time"
	msgInvalidTimeRange = "Start time must be before end time"
	msgCapacityRange    = "Group size must be between %d and %d"
	msgNegativePrice    = "Price per person cannot be negative"
	msgGuideRequired    = "Guide is required"
	msgSlotIDRequired   = "Availability id is required"
)

// validateCreate проверяет запрос на создание и собирает доменный слот.
// Длительность вычисляется из пары времён.
func validateCreate(req *models.CreateSlotRequest, today time.Time) (*domain.AvailabilitySlot, error) {
	date, err := parseDate(req.SpecificDate, today)
	if err != nil {
		return nil, err
	}

	start, err := parseTime(req.StartTime, msgStartRequired, msgStartInvalid)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(req.EndTime, msgEndRequired, msgEndInvalid)
	if err != nil {
		return nil, err
	}

	duration, err := domain.DurationMinutes(start, end)
	if err != nil {
		return nil, validationError(msgInvalidTimeRange)
	}

	if err := validateCapacity(req.MaxGuests); err != nil {
		return nil, err
	}
	if err := validatePrice(req.PricePerPerson); err != nil {
		return nil, err
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	return &domain.AvailabilitySlot{
		SpecificDate:   date,
		StartTime:      start,
		EndTime:        end,
		DurationMins:   duration,
		Capacity:       req.MaxGuests,
		PricePerPerson: req.PricePerPerson,
		IsAvailable:    isAvailable,
	}, nil
}

// validateUpdate проверяет частичное обновление и собирает патч.
// Если переданы оба времени, диапазон проверяется сразу; если одно, то после загрузки текущего слота.
func validateUpdate(req *models.UpdateSlotRequest, today time.Time) (*domain.SlotPatch, error) {
	patch := &domain.SlotPatch{
		PricePerPerson: req.PricePerPerson,
		IsAvailable:    req.IsAvailable,
	}

	if req.SpecificDate != nil {
		date, err := parseDate(*req.SpecificDate, today)
		if err != nil {
			return nil, err
		}
		patch.SpecificDate = &date
	}

	if req.StartTime != nil {
		start, err := parseTime(*req.StartTime, msgStartRequired, msgStartInvalid)
		if err != nil {
			return nil, err
		}
		patch.StartTime = &start
	}

	if req.EndTime != nil {
		end, err := parseTime(*req.EndTime, msgEndRequired, msgEndInvalid)
		if err != nil {
			return nil, err
		}
		patch.EndTime = &end
	}

	if patch.StartTime != nil && patch.EndTime != nil {
		if _, err := domain.DurationMinutes(*patch.StartTime, *patch.EndTime); err != nil {
			return nil, validationError(msgInvalidTimeRange)
		}
	}

	if req.MaxGuests != nil {
		if err := validateCapacity(*req.MaxGuests); err != nil {
			return nil, err
		}
		capacity := *req.MaxGuests
		patch.Capacity = &capacity
	}

	if req.PricePerPerson != nil {
		if err := validatePrice(*req.PricePerPerson); err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		return nil, validationError(MsgNoChanges)
	}

	return patch, nil
}

// applyTimes пересчитывает длительность по итоговой паре времён
func applyTimes(current *domain.AvailabilitySlot, patch *domain.SlotPatch) error {
	if !patch.TouchesTimes() {
		return nil
	}

	start, end := current.StartTime, current.EndTime
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}

	duration, err := domain.DurationMinutes(start, end)
	if err != nil {
		return validationError(msgInvalidTimeRange)
	}
	patch.DurationMins = &duration

	return nil
}

func parseDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, validationError(msgDateRequired)
	}

	date, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, validationError(msgDateInvalid)
	}

	if !domain.WithinHorizon(date, today) {
		return time.Time{}, validationError(msgDateOutOfHorizon)
	}

	return date, nil
}

func parseTime(s, requiredMsg, invalidMsg string) (types.TimeString, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", validationError(requiredMsg)
	}

	t, err := types.To24Hour(s)
	if err != nil {
		return "", validationError(invalidMsg)
	}
	return t, nil
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinCapacity || capacity > domain.MaxCapacity {
		return validationError(fmt.Sprintf(msgCapacityRange, domain.MinCapacity, domain.MaxCapacity))
	}
	return nil
}

func validatePrice(price float64) error {
	if price < domain.MinPricePerPerson {
		return validationError(msgNegativePrice)
	}
	return nil
}

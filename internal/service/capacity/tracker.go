package capacity

import "github.com/m04kA/TourGuide-AvailabilityService/internal/domain"

// Summary сводка по заполненности слота для отображения
type Summary struct {
	Capacity       int
	BookedCount    int
	AvailableCount int
	Status         domain.SlotStatus
}

// AvailableCount количество свободных мест, не меньше нуля
func AvailableCount(slot *domain.AvailabilitySlot) int {
	available := slot.Capacity - slot.TouristCount
	if available < 0 {
		return 0
	}
	return available
}

// Status статус слота: выключенный слот всегда DISABLED, даже если места остались
func Status(slot *domain.AvailabilitySlot) domain.SlotStatus {
	if !slot.IsAvailable {
		return domain.StatusDisabled
	}
	if AvailableCount(slot) == 0 {
		return domain.StatusFullyBooked
	}
	return domain.StatusAvailable
}

// Summarize собирает сводку по слоту
func Summarize(slot *domain.AvailabilitySlot) Summary {
	return Summary{
		Capacity:       slot.Capacity,
		BookedCount:    slot.TouristCount,
		AvailableCount: AvailableCount(slot),
		Status:         Status(slot),
	}
}

// IsBookable returns true if a tourist can book into the slot right now
func IsBookable(slot *domain.AvailabilitySlot) bool {
	return Status(slot) == domain.StatusAvailable
}

package calendar

import (
	"sort"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
)

// DayGroup слоты одного дня календарной сетки
type DayGroup struct {
	Date  time.Time
	Slots []*domain.AvailabilitySlot
}

// DateKey returns the group date as YYYY-MM-DD
func (g DayGroup) DateKey() string {
	return g.Date.Format(domain.DateFormat)
}

// IsEmpty returns true if there are no slots on this day
func (g DayGroup) IsEmpty() bool {
	return len(g.Slots) == 0
}

// SlotActions точки входа для мутаций, допустимые для слота
type SlotActions struct {
	CanEdit         bool
	CanEditCapacity bool
	CanToggle       bool
	CanDelete       bool
}

// Bucket раскладывает слоты по сетке из domain.CalendarDays дней, начиная с today.
// Всегда возвращает ровно CalendarDays групп в порядке возрастания даты, даже для пустого входа.
// Слоты вне окна отбрасываются, внутри дня сортируются по времени начала.
// Входной срез и слоты не изменяются: группы содержат копии.
func Bucket(slots []*domain.AvailabilitySlot, today time.Time) []DayGroup {
	anchor := domain.DateOnly(today)

	groups := make([]DayGroup, domain.CalendarDays)
	index := make(map[string]int, domain.CalendarDays)
	for i := range groups {
		date := anchor.AddDate(0, 0, i)
		groups[i] = DayGroup{
			Date:  date,
			Slots: make([]*domain.AvailabilitySlot, 0),
		}
		index[date.Format(domain.DateFormat)] = i
	}

	for _, slot := range slots {
		if slot == nil {
			continue
		}
		i, ok := index[slot.DateKey()]
		if !ok {
			continue
		}
		groups[i].Slots = append(groups[i].Slots, slot.Clone())
	}

	for i := range groups {
		daySlots := groups[i].Slots
		sort.SliceStable(daySlots, func(a, b int) bool {
			if daySlots[a].StartTime != daySlots[b].StartTime {
				return daySlots[a].StartTime.IsBefore(daySlots[b].StartTime)
			}
			return daySlots[a].EndTime.IsBefore(daySlots[b].EndTime)
		})
	}

	return groups
}

// ActionsFor возвращает допустимые действия над слотом.
// Забронированный слот нельзя удалить и нельзя менять его вместимость.
func ActionsFor(slot *domain.AvailabilitySlot) SlotActions {
	return SlotActions{
		CanEdit:         true,
		CanEditCapacity: slot.CanChangeCapacity(),
		CanToggle:       true,
		CanDelete:       slot.CanBeDeleted(),
	}
}

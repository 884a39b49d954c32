package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/pkg/types"
)

// SlotStatus состояние слота для бронирования
type SlotStatus string

const (
	StatusAvailable   SlotStatus = "AVAILABLE"
	StatusFullyBooked SlotStatus = "FULLY_BOOKED"
	StatusDisabled    SlotStatus = "DISABLED"
)

// AvailabilitySlot bookable time window of a guide on one calendar date
type AvailabilitySlot struct {
	ID           string
	GuideID      string
	SpecificDate time.Time // полночь UTC календарной даты
	StartTime    types.TimeString
	EndTime      types.TimeString
	DurationMins int

	// Capacity единое поле вместимости (maxGroupSize / todaysTourist.maxGuests во внешнем API)
	Capacity       int
	PricePerPerson float64
	IsAvailable    bool

	// TouristCount количество подтверждённых туристов (todaysTourist.count)
	TouristCount int

	SyncedAt time.Time
}

// IsBooked returns true if at least one tourist is booked into the slot
func (s *AvailabilitySlot) IsBooked() bool {
	return s.TouristCount > 0
}

// CanBeDeleted returns true if the slot has no tourists
func (s *AvailabilitySlot) CanBeDeleted() bool {
	return !s.IsBooked()
}

// CanChangeCapacity returns true if capacity edits are allowed
func (s *AvailabilitySlot) CanChangeCapacity() bool {
	return !s.IsBooked()
}

// DateKey returns the slot date as YYYY-MM-DD
func (s *AvailabilitySlot) DateKey() string {
	return s.SpecificDate.Format(DateFormat)
}

// SameWindow returns true if both slots cover the same (date, start, end) tuple
func (s *AvailabilitySlot) SameWindow(other *AvailabilitySlot) bool {
	return s.DateKey() == other.DateKey() &&
		s.StartTime == other.StartTime &&
		s.EndTime == other.EndTime
}

// Clone returns a copy of the slot
func (s *AvailabilitySlot) Clone() *AvailabilitySlot {
	c := *s
	return &c
}

// SlotPatch частичное обновление слота. nil означает "не менять"
type SlotPatch struct {
	SpecificDate   *time.Time
	StartTime      *types.TimeString
	EndTime        *types.TimeString
	DurationMins   *int
	Capacity       *int
	PricePerPerson *float64
	IsAvailable    *bool
}

// IsEmpty returns true if the patch changes nothing
func (p *SlotPatch) IsEmpty() bool {
	return p.SpecificDate == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.Capacity == nil &&
		p.PricePerPerson == nil &&
		p.IsAvailable == nil
}

// TouchesTimes returns true if the patch changes start or end time
func (p *SlotPatch) TouchesTimes() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// DurationMinutes вычисляет длительность окна в минутах.
// Возвращает ErrInvalidTimeRange, если start >= end.
func DurationMinutes(start, end types.TimeString) (int, error) {
	minutes, err := start.MinutesUntil(end)
	if err != nil {
		return 0, err
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}
	return minutes, nil
}

// DateOnly отбрасывает время суток, сохраняя календарную дату t (в её часовом поясе)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate парсит дату слота. Внешний API может отдать как "2026-10-16",
// так и "2026-10-16T00:00:00.000Z"; сравнение идёт по первым 10 символам.
func ParseDate(s string) (time.Time, error) {
	if len(s) < len(DateFormat) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	date, err := time.Parse(DateFormat, s[:len(DateFormat)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return date, nil
}

// WithinHorizon проверяет, что date попадает в [today, today+HorizonDays] включительно
func WithinHorizon(date, today time.Time) bool {
	d := DateOnly(date)
	from := DateOnly(today)
	to := from.AddDate(0, 0, HorizonDays)
	return !d.Before(from) && !d.After(to)
}

package models

import (
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/capacity"
)

// Result единый результат операций сервиса: ошибки не пробрасываются наверх,
// а возвращаются как {success:false, message}
type Result[T any] struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    T                `json:"data"`
	Kind    domain.ErrorKind `json:"-"`
}

// OK успешный результат
func OK[T any](message string, data T) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data}
}

// Fail неуспешный результат с классом ошибки
func Fail[T any](kind domain.ErrorKind, message string) Result[T] {
	return Result[T]{Success: false, Message: message, Kind: kind}
}

// Request модели

// CreateSlotRequest запрос на создание слота.
// Время принимается в HH:MM или в 12-часовом формате ("09:00 AM")
type CreateSlotRequest struct {
	SpecificDate   string
	StartTime      string
	EndTime        string
	MaxGuests      int
	PricePerPerson float64
	IsAvailable    *bool // по умолчанию true
}

// UpdateSlotRequest частичное обновление слота, nil означает "не менять"
type UpdateSlotRequest struct {
	SpecificDate   *string
	StartTime      *string
	EndTime        *string
	MaxGuests      *int
	PricePerPerson *float64
	IsAvailable    *bool
}

// Response модели

// ActionsResponse доступные действия над слотом
type ActionsResponse struct {
	CanEdit         bool `json:"canEdit"`
	CanEditCapacity bool `json:"canEditCapacity"`
	CanToggle       bool `json:"canToggle"`
	CanDelete       bool `json:"canDelete"`
}

// SlotResponse слот с производным состоянием вместимости
type SlotResponse struct {
	ID             string            `json:"id"`
	GuideID        string            `json:"guideId"`
	SpecificDate   string            `json:"specificDate"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	DurationMins   int               `json:"durationMins"`
	MaxGuests      int               `json:"maxGuests"`
	PricePerPerson float64           `json:"pricePerPerson"`
	IsAvailable    bool              `json:"isAvailable"`
	TouristCount   int               `json:"touristCount"`
	IsBooked       bool              `json:"isBooked"`
	IsBookable     bool              `json:"isBookable"`
	AvailableCount int               `json:"availableCount"`
	Status         domain.SlotStatus `json:"status"`
	Actions        ActionsResponse   `json:"actions"`
}

// SlotListResponse снимок слотов гида
type SlotListResponse struct {
	Slots    []*SlotResponse `json:"slots"`
	Total    int             `json:"total"`
	SyncedAt *time.Time      `json:"syncedAt,omitempty"`
	Stale    bool            `json:"stale"`
}

// DayResponse один день календарной сетки
type DayResponse struct {
	Date  string          `json:"date"`
	Slots []*SlotResponse `json:"slots"`
}

// CalendarResponse проекция слотов на 7 дней
type CalendarResponse struct {
	From  string         `json:"from"`
	To    string         `json:"to"`
	Days  []*DayResponse `json:"days"`
	Stale bool           `json:"stale"`
}

// DeleteSlotResponse ответ на удаление слота
type DeleteSlotResponse struct {
	ID string `json:"id"`
}

// FromDomainSlot конвертирует доменный слот в ответ
func FromDomainSlot(slot *domain.AvailabilitySlot) *SlotResponse {
	summary := capacity.Summarize(slot)
	actions := calendar.ActionsFor(slot)

	return &SlotResponse{
		ID:             slot.ID,
		GuideID:        slot.GuideID,
		SpecificDate:   slot.DateKey(),
		StartTime:      slot.StartTime.String(),
		EndTime:        slot.EndTime.String(),
		DurationMins:   slot.DurationMins,
		MaxGuests:      summary.Capacity,
		PricePerPerson: slot.PricePerPerson,
		IsAvailable:    slot.IsAvailable,
		TouristCount:   summary.BookedCount,
		IsBooked:       slot.IsBooked(),
		IsBookable:     capacity.IsBookable(slot),
		AvailableCount: summary.AvailableCount,
		Status:         summary.Status,
		Actions: ActionsResponse{
			CanEdit:         actions.CanEdit,
			CanEditCapacity: actions.CanEditCapacity,
			CanToggle:       actions.CanToggle,
			CanDelete:       actions.CanDelete,
		},
	}
}

// FromDomainSlots конвертирует список слотов
func FromDomainSlots(slots []*domain.AvailabilitySlot) []*SlotResponse {
	result := make([]*SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, FromDomainSlot(slot))
	}
	return result
}

// FromDayGroups конвертирует календарную проекцию
func FromDayGroups(groups []calendar.DayGroup, stale bool) *CalendarResponse {
	resp := &CalendarResponse{
		Days:  make([]*DayResponse, 0, len(groups)),
		Stale: stale,
	}

	for _, g := range groups {
		resp.Days = append(resp.Days, &DayResponse{
			Date:  g.DateKey(),
			Slots: FromDomainSlots(g.Slots),
		})
	}

	if len(groups) > 0 {
		resp.From = groups[0].DateKey()
		resp.To = groups[len(groups)-1].DateKey()
	}

	return resp
}

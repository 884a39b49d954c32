package tourapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope общий формат ответа внешнего API
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Amount денежная сумма. API может прислать её числом или строкой (Decimal)
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		*a = Amount(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

// TodaysTourist занятость слота
type TodaysTourist struct {
	Count     *int  `json:"count,omitempty"`
	MaxGuests *int  `json:"maxGuests,omitempty"`
	IsBooked  *bool `json:"isBooked,omitempty"`
}

// Availability слот в формате внешнего API
type Availability struct {
	ID             string         `json:"id"`
	GuideID        string         `json:"guideId"`
	SpecificDate   string         `json:"specificDate"` // "2026-10-16" или "2026-10-16T00:00:00.000Z"
	StartTime      string         `json:"startTime"`    // "09:00" или "09:00 AM"
	EndTime        string         `json:"endTime"`
	DurationMins   int            `json:"durationMins"`
	MaxGroupSize   *int           `json:"maxGroupSize,omitempty"`
	PricePerPerson Amount         `json:"pricePerPerson"`
	IsAvailable    bool           `json:"isAvailable"`
	TodaysTourist  *TodaysTourist `json:"todaysTourist,omitempty"`
}

// TouristCapacity вложенная вместимость в теле запроса
type TouristCapacity struct {
	MaxGuests int `json:"maxGuests"`
}

// CreateAvailabilityBody тело POST /availability
type CreateAvailabilityBody struct {
	SpecificDate   string          `json:"specificDate"`
	StartTime      string          `json:"startTime"`
	EndTime        string          `json:"endTime"`
	DurationMins   int             `json:"durationMins"`
	MaxGroupSize   int             `json:"maxGroupSize"`
	PricePerPerson float64         `json:"pricePerPerson"`
	IsAvailable    bool            `json:"isAvailable"`
	TodaysTourist  TouristCapacity `json:"todaysTourist"`
}

// UpdateAvailabilityBody тело PATCH /availability/:id, только изменённые поля
type UpdateAvailabilityBody struct {
	SpecificDate   *string          `json:"specificDate,omitempty"`
	StartTime      *string          `json:"startTime,omitempty"`
	EndTime        *string          `json:"endTime,omitempty"`
	DurationMins   *int             `json:"durationMins,omitempty"`
	MaxGroupSize   *int             `json:"maxGroupSize,omitempty"`
	PricePerPerson *float64         `json:"pricePerPerson,omitempty"`
	IsAvailable    *bool            `json:"isAvailable,omitempty"`
	TodaysTourist  *TouristCapacity `json:"todaysTourist,omitempty"`
}

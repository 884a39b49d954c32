package notify

import "time"

// EventRefreshed тип события обновления снимка слотов
const EventRefreshed = "availability.refreshed"

// RefreshEvent сообщение, которое получают открытые дашборды гида
type RefreshEvent struct {
	Type    string    `json:"type"`
	GuideID string    `json:"guideId"`
	Count   int       `json:"count"`
	At      time.Time `json:"at"`
}

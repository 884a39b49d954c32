package slot_events

import "net/http"

// Subscriber websocket хаб событий обновления слотов
type Subscriber interface {
	ServeWS(w http.ResponseWriter, r *http.Request, guideID string)
}

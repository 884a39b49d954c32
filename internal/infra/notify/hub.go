package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/TourGuide-AvailabilityService/pkg/metrics"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// subscriber одно websocket соединение дашборда.
// gorilla/websocket допускает только одного писателя, поэтому запись под mu
type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
	done chan struct{}
	once sync.Once
}

func (s *subscriber) write(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

func (s *subscriber) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}

// Hub рассылает события обновления слотов подписанным дашбордам гида.
// У одного гида может быть несколько открытых вкладок.
type Hub struct {
	upgrader websocket.Upgrader
	log      Logger
	metrics  *metrics.Metrics

	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

// NewHub создает хаб. Пустой allowedOrigins разрешает любой origin
func NewHub(log Logger, m *metrics.Metrics, allowedOrigins []string) *Hub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		log:     log,
		metrics: m,
		subs:    make(map[string]map[*subscriber]struct{}),
	}
}

// ServeWS переводит запрос в websocket и держит подписку гида до разрыва соединения
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, guideID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой
		h.log.Warn("Hub.ServeWS: upgrade failed for guide %s: %v", guideID, err)
		return
	}

	sub := &subscriber{conn: conn, done: make(chan struct{})}
	if !h.register(guideID, sub) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}

	h.log.Info("Hub.ServeWS: guide %s subscribed", guideID)

	defer func() {
		h.unregister(guideID, sub)
		h.log.Info("Hub.ServeWS: guide %s unsubscribed", guideID)
	}()

	go h.pingLoop(sub)
	h.readLoop(sub)
}

// NotifyRefreshed отправляет событие всем подпискам гида. Возвращает число доставленных сообщений
func (h *Hub) NotifyRefreshed(guideID string, count int, at time.Time) int {
	event := RefreshEvent{
		Type:    EventRefreshed,
		GuideID: guideID,
		Count:   count,
		At:      at.UTC(),
	}

	h.mu.RLock()
	targets := make([]*subscriber, 0, len(h.subs[guideID]))
	for sub := range h.subs[guideID] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, sub := range targets {
		if err := sub.writeJSON(event); err != nil {
			h.log.Warn("Hub.NotifyRefreshed: dropping subscriber of guide %s: %v", guideID, err)
			h.unregister(guideID, sub)
			continue
		}
		delivered++
	}

	return delivered
}

// SubscriberCount количество открытых подписок гида
func (h *Hub) SubscriberCount(guideID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[guideID])
}

// Close закрывает все соединения. Новые подписки после Close отклоняются
func (h *Hub) Close() {
	h.mu.Lock()
	all := h.subs
	h.subs = make(map[string]map[*subscriber]struct{})
	h.closed = true
	h.mu.Unlock()

	for _, set := range all {
		for sub := range set {
			_ = sub.write(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			h.closeSubscriber(sub)
		}
	}
}

func (h *Hub) register(guideID string, sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}

	set, ok := h.subs[guideID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[guideID] = set
	}
	set[sub] = struct{}{}
	h.metrics.AddWSSubscribers(1)

	return true
}

func (h *Hub) unregister(guideID string, sub *subscriber) {
	h.mu.Lock()
	set, ok := h.subs[guideID]
	if ok {
		if _, present := set[sub]; present {
			delete(set, sub)
			if len(set) == 0 {
				delete(h.subs, guideID)
			}
		} else {
			ok = false
		}
	}
	h.mu.Unlock()

	if ok {
		h.closeSubscriber(sub)
	}
}

func (h *Hub) closeSubscriber(sub *subscriber) {
	sub.once.Do(func() {
		close(sub.done)
		_ = sub.conn.Close()
		h.metrics.AddWSSubscribers(-1)
	})
}

// readLoop вычитывает входящие кадры, чтобы обрабатывать pong и close
func (h *Hub) readLoop(sub *subscriber) {
	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Hub.readLoop: unexpected close: %v", err)
			}
			return
		}
	}
}

func (h *Hub) pingLoop(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := sub.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.done:
			return
		}
	}
}

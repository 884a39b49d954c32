package tourapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/auth"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/metrics"
)

const (
	// maxResponseSize ограничение на размер тела ответа API
	maxResponseSize = 4 << 20

	headerRequestID = "X-Request-ID"
)

// Client клиент для работы с внешним API маркетплейса (раздел availability)
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        Logger
	metrics    *metrics.Metrics
}

// NewClient создает новый экземпляр клиента. m может быть nil.
// timeout применяется к запросу, только если у контекста нет своего дедлайна:
// мутации ограничиваются собственным таймаутом вызывающей стороны.
func NewClient(baseURL string, timeout time.Duration, log Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		log:        log,
		metrics:    m,
	}
}

// ListMy получает все слоты текущего гида (GET /availability/my)
func (c *Client) ListMy(ctx context.Context) ([]*domain.AvailabilitySlot, error) {
	var items []*Availability
	if err := c.do(ctx, "list_my", http.MethodGet, "/availability/my", nil, &items); err != nil {
		return nil, err
	}

	slots := make([]*domain.AvailabilitySlot, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		slot, err := ToDomain(item)
		if err != nil {
			// Один битый слот не должен скрывать весь календарь
			c.log.Warn("TourAPI ListMy: skipping malformed slot: %v", err)
			continue
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// Create создает слот (POST /availability)
func (c *Client) Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	var created Availability
	if err := c.do(ctx, "create", http.MethodPost, "/availability", ToCreateBody(slot), &created); err != nil {
		return nil, err
	}

	result, err := ToDomain(&created)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update частично обновляет слот (PATCH /availability/:id)
func (c *Client) Update(ctx context.Context, id string, patch *domain.SlotPatch) (*domain.AvailabilitySlot, error) {
	var updated Availability
	path := "/availability/" + url.PathEscape(id)
	if err := c.do(ctx, "update", http.MethodPatch, path, ToUpdateBody(patch), &updated); err != nil {
		return nil, err
	}

	result, err := ToDomain(&updated)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete удаляет слот (DELETE /availability/:id)
func (c *Client) Delete(ctx context.Context, id string) error {
	path := "/availability/" + url.PathEscape(id)
	return c.do(ctx, "delete", http.MethodDelete, path, nil, nil)
}

// do выполняет запрос и разбирает конверт {success, message, data}.
// out == nil означает, что data не нужна.
func (c *Client) do(ctx context.Context, operation, method, path string, body interface{}, out interface{}) (err error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if err != nil {
			outcome = classify(err)
		}
		c.metrics.ObserveExternalCall(operation, outcome, time.Since(start))
	}()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Сессия пробрасывается как есть: авторизацию проверяет сам API
	if creds, ok := auth.FromContext(ctx); ok {
		for _, cookie := range creds.Cookies {
			req.AddCookie(cookie)
		}
		if creds.RequestID != "" {
			req.Header.Set(headerRequestID, creds.RequestID)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("TourAPI %s %s: request failed: %v", method, path, err)
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: %s %s: failed to read response: %v", ErrNetwork, method, path, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var envelope Envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			if !ok {
				return &RemoteError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			}
			return fmt.Errorf("%w: %s %s: failed to decode response: %v", ErrInvalidResponse, method, path, err)
		}
	} else if ok && resp.StatusCode == http.StatusNoContent {
		// 204 без тела считаем успехом
		envelope.Success = true
	}

	if !ok || !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		c.log.Warn("TourAPI %s %s: API rejected request: status=%d, message=%q", method, path, resp.StatusCode, message)
		return &RemoteError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}

	if len(envelope.Data) == 0 || bytes.Equal(bytes.TrimSpace(envelope.Data), []byte("null")) {
		// data:null для списка означает, что слотов нет
		if _, isList := out.(*[]*Availability); isList {
			return nil
		}
		return fmt.Errorf("%w: %s %s: empty data", ErrInvalidResponse, method, path)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %s %s: failed to decode data: %v", ErrInvalidResponse, method, path, err)
	}

	return nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrRemote):
		return "remote_error"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	default:
		return "internal_error"
	}
}

package availability

import (
	"context"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/infra/lock"
)

// TourAPIClient интерфейс клиента внешнего API маркетплейса
type TourAPIClient interface {
	ListMy(ctx context.Context) ([]*domain.AvailabilitySlot, error)
	Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	Update(ctx context.Context, id string, patch *domain.SlotPatch) (*domain.AvailabilitySlot, error)
	Delete(ctx context.Context, id string) error
}

// SlotRepository интерфейс хранилища снимков слотов
type SlotRepository interface {
	GetByGuide(ctx context.Context, guideID string) ([]*domain.AvailabilitySlot, error)
	GetByID(ctx context.Context, guideID, id string) (*domain.AvailabilitySlot, error)
	DeleteByGuide(ctx context.Context, guideID string) error
	InsertBatch(ctx context.Context, slots []*domain.AvailabilitySlot) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubmissionGuard защита от повторной отправки одной и той же мутации
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (lock.ReleaseFunc, error)
}

// Notifier оповещает открытые дашборды об обновлении снимка
type Notifier interface {
	NotifyRefreshed(guideID string, count int, at time.Time) int
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

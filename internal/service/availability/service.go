package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/infra/lock"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/availability/models"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/service/calendar"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/metrics"
)

// Операции мутаций (ключи блокировок и метрики)
const (
	opCreate = "create"
	opUpdate = "update"
	opToggle = "toggle"
	opDelete = "delete"
)

// Config настройки сервиса
type Config struct {
	// MutationTimeout ограничивает вызов API при мутации. Отмена входящего запроса его не прерывает
	MutationTimeout time.Duration

	// MaxAge возраст снимка, после которого он перечитывается из API. 0 - всегда перечитывать
	MaxAge time.Duration

	// Location часовой пояс, в котором определяется "сегодня"
	Location *time.Location
}

// Service единственная точка изменения слотов гида.
// Проверяет инварианты до обращения к API, после подтверждения перечитывает снимок.
type Service struct {
	client       TourAPIClient
	slotRepo     SlotRepository
	txManager    TransactionManager
	guard        SubmissionGuard
	notifier     Notifier
	metrics      *metrics.Metrics
	timeProvider TimeProvider
	cfg          Config
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	client TourAPIClient,
	slotRepo SlotRepository,
	txManager TransactionManager,
	guard SubmissionGuard,
	notifier Notifier,
	m *metrics.Metrics,
	cfg Config,
	logger Logger,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MutationTimeout <= 0 {
		cfg.MutationTimeout = 30 * time.Second
	}

	return &Service{
		client:       client,
		slotRepo:     slotRepo,
		txManager:    txManager,
		guard:        guard,
		notifier:     notifier,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		cfg:          cfg,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create создает слот
func (s *Service) Create(ctx context.Context, guideID string, req *models.CreateSlotRequest) models.Result[*models.SlotResponse] {
	s.logger.Info("CreateSlot: guide=%s, date=%s, time=%s-%s", guideID, req.SpecificDate, req.StartTime, req.EndTime)

	slot, err := s.create(ctx, guideID, req)
	if err != nil {
		return fail[*models.SlotResponse](s, "CreateSlot", opCreate, err)
	}

	s.metrics.IncMutation(opCreate, "success")
	s.logger.Info("CreateSlot: created slot id=%s for guide=%s", slot.ID, guideID)
	return models.OK(MsgCreated, models.FromDomainSlot(slot))
}

func (s *Service) create(ctx context.Context, guideID string, req *models.CreateSlotRequest) (*domain.AvailabilitySlot, error) {
	// 1. Валидация до любых сетевых вызовов
	if guideID == "" {
		return nil, validationError(msgGuideRequired)
	}
	slot, err := validateCreate(req, s.today())
	if err != nil {
		return nil, err
	}

	// 2. Защита от повторной отправки
	target := fmt.Sprintf("%s_%s_%s", slot.DateKey(), slot.StartTime, slot.EndTime)
	release, err := s.guard.Acquire(ctx, lock.Key(guideID, opCreate, target))
	if err != nil {
		return nil, err
	}
	defer release()

	// 3. Текущее состояние слотов
	current, err := s.refresh(ctx, guideID)
	if err != nil {
		return nil, err
	}

	// 4. Не больше одного слота на (дата, начало, конец)
	for _, existing := range current {
		if existing.SameWindow(slot) {
			return nil, conflictError(MsgDuplicateSlot)
		}
	}

	// 5. Вызов API
	mctx, cancel := s.mutationContext(ctx)
	defer cancel()

	created, err := s.client.Create(mctx, slot)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(created, guideID); err != nil {
		return nil, err
	}
	created.GuideID = guideID

	// 6. Снимок меняется только перечитыванием
	s.refreshAfterMutation(mctx, "CreateSlot", guideID)

	return created, nil
}

// Update частично обновляет слот
func (s *Service) Update(ctx context.Context, guideID, id string, req *models.UpdateSlotRequest) models.Result[*models.SlotResponse] {
	s.logger.Info("UpdateSlot: guide=%s, slot id=%s", guideID, id)

	slot, err := s.validateAndUpdate(ctx, guideID, id, req, opUpdate)
	if err != nil {
		return fail[*models.SlotResponse](s, "UpdateSlot", opUpdate, err)
	}

	s.metrics.IncMutation(opUpdate, "success")
	s.logger.Info("UpdateSlot: updated slot id=%s for guide=%s", id, guideID)
	return models.OK(MsgUpdated, models.FromDomainSlot(slot))
}

// Toggle включает/выключает слот для бронирования. Разрешено всегда, даже при наличии туристов
func (s *Service) Toggle(ctx context.Context, guideID, id string, isAvailable bool) models.Result[*models.SlotResponse] {
	s.logger.Info("ToggleSlot: guide=%s, slot id=%s, isAvailable=%t", guideID, id, isAvailable)

	req := &models.UpdateSlotRequest{IsAvailable: &isAvailable}
	slot, err := s.validateAndUpdate(ctx, guideID, id, req, opToggle)
	if err != nil {
		return fail[*models.SlotResponse](s, "ToggleSlot", opToggle, err)
	}

	s.metrics.IncMutation(opToggle, "success")

	message := MsgEnabled
	if !isAvailable {
		message = MsgHidden
	}
	return models.OK(message, models.FromDomainSlot(slot))
}

func (s *Service) validateAndUpdate(ctx context.Context, guideID, id string, req *models.UpdateSlotRequest, op string) (*domain.AvailabilitySlot, error) {
	if guideID == "" {
		return nil, validationError(msgGuideRequired)
	}
	if id == "" {
		return nil, validationError(msgSlotIDRequired)
	}

	patch, err := validateUpdate(req, s.today())
	if err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(ctx, lock.Key(guideID, op, id))
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.refresh(ctx, guideID)
	if err != nil {
		return nil, err
	}

	slot := findSlot(current, id)
	if slot == nil {
		return nil, &Error{Kind: domain.KindNotFound, Message: MsgNotFound}
	}

	// Вместимость забронированного слота не меняется, даже в большую сторону
	if patch.Capacity != nil && !slot.CanChangeCapacity() {
		return nil, conflictError(MsgCapacityLocked)
	}

	if err := applyTimes(slot, patch); err != nil {
		return nil, err
	}

	if patch.SpecificDate != nil || patch.TouchesTimes() {
		moved := slot.Clone()
		if patch.SpecificDate != nil {
			moved.SpecificDate = *patch.SpecificDate
		}
		if patch.StartTime != nil {
			moved.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			moved.EndTime = *patch.EndTime
		}
		for _, other := range current {
			if other.ID != slot.ID && other.SameWindow(moved) {
				return nil, conflictError(MsgDuplicateSlot)
			}
		}
	}

	mctx, cancel := s.mutationContext(ctx)
	defer cancel()

	updated, err := s.client.Update(mctx, id, patch)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(updated, guideID); err != nil {
		return nil, err
	}
	updated.GuideID = guideID

	s.refreshAfterMutation(mctx, "UpdateSlot", guideID)

	return updated, nil
}

// Delete удаляет слот. Слот с туристами удалить нельзя
func (s *Service) Delete(ctx context.Context, guideID, id string) models.Result[*models.DeleteSlotResponse] {
	s.logger.Info("DeleteSlot: guide=%s, slot id=%s", guideID, id)

	if err := s.delete(ctx, guideID, id); err != nil {
		return fail[*models.DeleteSlotResponse](s, "DeleteSlot", opDelete, err)
	}

	s.metrics.IncMutation(opDelete, "success")
	s.logger.Info("DeleteSlot: deleted slot id=%s for guide=%s", id, guideID)
	return models.OK(MsgDeleted, &models.DeleteSlotResponse{ID: id})
}

func (s *Service) delete(ctx context.Context, guideID, id string) error {
	if guideID == "" {
		return validationError(msgGuideRequired)
	}
	if id == "" {
		return validationError(msgSlotIDRequired)
	}

	release, err := s.guard.Acquire(ctx, lock.Key(guideID, opDelete, id))
	if err != nil {
		return err
	}
	defer release()

	current, err := s.refresh(ctx, guideID)
	if err != nil {
		return err
	}

	slot := findSlot(current, id)
	if slot == nil {
		return &Error{Kind: domain.KindNotFound, Message: MsgNotFound}
	}
	if !slot.CanBeDeleted() {
		return conflictError(MsgDeleteWithTourists)
	}

	mctx, cancel := s.mutationContext(ctx)
	defer cancel()

	if err := s.client.Delete(mctx, id); err != nil {
		return err
	}

	s.refreshAfterMutation(mctx, "DeleteSlot", guideID)

	return nil
}

// List возвращает снимок слотов гида. forceRefresh перечитывает его из API
func (s *Service) List(ctx context.Context, guideID string, forceRefresh bool) models.Result[*models.SlotListResponse] {
	s.logger.Info("ListSlots: guide=%s, refresh=%t", guideID, forceRefresh)

	slots, stale, err := s.snapshot(ctx, guideID, forceRefresh)
	if err != nil {
		return fail[*models.SlotListResponse](s, "ListSlots", "", err)
	}

	resp := &models.SlotListResponse{
		Slots: models.FromDomainSlots(slots),
		Total: len(slots),
		Stale: stale,
	}
	if syncedAt := oldestSync(slots); !syncedAt.IsZero() {
		resp.SyncedAt = &syncedAt
	}

	message := ""
	if stale {
		message = MsgStale
	}
	return models.OK(message, resp)
}

// Get возвращает один слот с состоянием вместимости
func (s *Service) Get(ctx context.Context, guideID, id string) models.Result[*models.SlotResponse] {
	s.logger.Info("GetSlot: guide=%s, slot id=%s", guideID, id)

	// Свежий слот отдаём из хранилища, иначе перечитываем снимок целиком
	if guideID != "" && id != "" {
		stored, err := s.slotRepo.GetByID(ctx, guideID, id)
		if err == nil && !s.isStale([]*domain.AvailabilitySlot{stored}) {
			return models.OK("", models.FromDomainSlot(stored))
		}
	}

	slots, stale, err := s.snapshot(ctx, guideID, false)
	if err != nil {
		return fail[*models.SlotResponse](s, "GetSlot", "", err)
	}

	slot := findSlot(slots, id)
	if slot == nil {
		return fail[*models.SlotResponse](s, "GetSlot", "", &Error{Kind: domain.KindNotFound, Message: MsgNotFound})
	}

	message := ""
	if stale {
		message = MsgStale
	}
	return models.OK(message, models.FromDomainSlot(slot))
}

// Calendar раскладывает слоты гида по 7 дням начиная с anchor (nil - сегодня)
func (s *Service) Calendar(ctx context.Context, guideID string, anchor *time.Time) models.Result[*models.CalendarResponse] {
	today := s.today()
	if anchor != nil {
		today = domain.DateOnly(*anchor)
	}
	s.logger.Info("GetCalendar: guide=%s, from=%s", guideID, today.Format(domain.DateFormat))

	slots, stale, err := s.snapshot(ctx, guideID, false)
	if err != nil {
		return fail[*models.CalendarResponse](s, "GetCalendar", "", err)
	}

	resp := models.FromDayGroups(calendar.Bucket(slots, today), stale)

	message := ""
	if stale {
		message = MsgStale
	}
	return models.OK(message, resp)
}

// snapshot читает снимок из хранилища и перечитывает его из API, если он устарел.
// При сетевой ошибке отдаётся устаревший снимок (stale=true), если он есть.
func (s *Service) snapshot(ctx context.Context, guideID string, force bool) ([]*domain.AvailabilitySlot, bool, error) {
	if guideID == "" {
		return nil, false, validationError(msgGuideRequired)
	}

	stored, err := s.slotRepo.GetByGuide(ctx, guideID)
	if err != nil {
		// Хранилище недоступно: идём в API напрямую
		s.logger.Error("snapshot: failed to read stored slots for guide=%s: %v", guideID, err)
		stored = nil
	}

	if !force && len(stored) > 0 && !s.isStale(stored) {
		return stored, false, nil
	}

	fresh, err := s.refresh(ctx, guideID)
	if err != nil {
		if len(stored) > 0 && classify(err).Kind == domain.KindNetwork {
			s.logger.Warn("snapshot: API unreachable, serving stored slots for guide=%s: %v", guideID, err)
			return stored, true, nil
		}
		return nil, false, err
	}

	return fresh, false, nil
}

// refresh перечитывает слоты гида из API и атомарно заменяет снимок
func (s *Service) refresh(ctx context.Context, guideID string) ([]*domain.AvailabilitySlot, error) {
	slots, err := s.client.ListMy(ctx)
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	seen := make(map[string]struct{}, len(slots))
	unique := make([]*domain.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		// Слоты принадлежат владельцу сессии. Чужие в снимок гида не попадают
		if err := checkOwner(slot, guideID); err != nil {
			return nil, err
		}
		if _, dup := seen[slot.ID]; dup {
			s.logger.Warn("refresh: duplicate slot id=%s for guide=%s", slot.ID, guideID)
			continue
		}
		seen[slot.ID] = struct{}{}
		slot.GuideID = guideID
		slot.SyncedAt = now
		unique = append(unique, slot)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.slotRepo.DeleteByGuide(ctx, guideID); err != nil {
			return err
		}
		return s.slotRepo.InsertBatch(ctx, unique)
	})
	if err != nil {
		// Данные из API актуальны, даже если снимок сохранить не удалось
		s.logger.Error("refresh: failed to store snapshot for guide=%s: %v", guideID, err)
	}

	s.notifier.NotifyRefreshed(guideID, len(unique), now)

	return unique, nil
}

// refreshAfterMutation обновляет снимок после подтверждённой мутации. Ошибка только логируется
func (s *Service) refreshAfterMutation(ctx context.Context, operation, guideID string) {
	rctx, cancel := s.mutationContext(ctx)
	defer cancel()

	if _, err := s.refresh(rctx, guideID); err != nil {
		s.logger.Warn("%s: mutation succeeded but refresh failed for guide=%s: %v", operation, guideID, err)
	}
}

// mutationContext отвязывает вызов API от отмены входящего запроса
func (s *Service) mutationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.cfg.MutationTimeout)
}

func (s *Service) today() time.Time {
	return domain.DateOnly(s.timeProvider.Now().In(s.cfg.Location))
}

func (s *Service) isStale(slots []*domain.AvailabilitySlot) bool {
	if s.cfg.MaxAge <= 0 {
		return true
	}
	return s.timeProvider.Now().Sub(oldestSync(slots)) > s.cfg.MaxAge
}

// fail логирует ошибку и превращает её в неуспешный результат
func fail[T any](s *Service, operation, op string, err error) models.Result[T] {
	opErr := classify(err)

	switch opErr.Kind {
	case domain.KindInternal, domain.KindNetwork:
		s.logger.Error("%s: %v", operation, err)
	default:
		s.logger.Warn("%s: %v", operation, err)
	}

	if op != "" {
		s.metrics.IncMutation(op, string(opErr.Kind))
	}

	return models.Fail[T](opErr.Kind, opErr.Message)
}

// checkOwner сверяет guideId из ответа API с гидом запроса. Пустой guideId не проверяется
func checkOwner(slot *domain.AvailabilitySlot, guideID string) error {
	if slot.GuideID == "" || slot.GuideID == guideID {
		return nil
	}
	return &Error{
		Kind:    domain.KindForbidden,
		Message: MsgSessionMismatch,
		Err:     fmt.Errorf("slot id=%s belongs to guide=%s, requested by guide=%s", slot.ID, slot.GuideID, guideID),
	}
}

func findSlot(slots []*domain.AvailabilitySlot, id string) *domain.AvailabilitySlot {
	for _, slot := range slots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

func oldestSync(slots []*domain.AvailabilitySlot) time.Time {
	var oldest time.Time
	for _, slot := range slots {
		if oldest.IsZero() || slot.SyncedAt.Before(oldest) {
			oldest = slot.SyncedAt
		}
	}
	return oldest
}

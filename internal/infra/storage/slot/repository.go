package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/TourGuide-AvailabilityService/internal/domain"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/TourGuide-AvailabilityService/pkg/psqlbuilder"
)

const table = "availability_slots"

var columns = []string{
	"id",
	"guide_id",
	"specific_date",
	"start_time",
	"end_time",
	"duration_mins",
	"capacity",
	"price_per_person",
	"is_available",
	"tourist_count",
	"synced_at",
}

// Repository хранит последний подтверждённый API снимок слотов гида
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByGuide возвращает снимок слотов гида, отсортированный по дате и времени начала.
// Пустой результат означает, что снимка ещё нет (или у гида нет слотов).
func (r *Repository) GetByGuide(ctx context.Context, guideID string) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"guide_id": guideID}).
		OrderBy("specific_date ASC", "start_time ASC", "end_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByGuide - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGuide - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// GetByID получает слот гида по ID
func (r *Repository) GetByID(ctx context.Context, guideID, id string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"guide_id": guideID, "id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// DeleteByGuide удаляет весь снимок гида.
// Вызывается внутри транзакции вместе с InsertBatch при обновлении снимка.
func (r *Repository) DeleteByGuide(ctx context.Context, guideID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"guide_id": guideID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByGuide - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteByGuide - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// InsertBatch вставляет слоты одним запросом. GuideID и SyncedAt должны быть заполнены
func (r *Repository) InsertBatch(ctx context.Context, slots []*domain.AvailabilitySlot) error {
	if len(slots) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Insert(table).Columns(columns...)
	for _, s := range slots {
		builder = builder.Values(
			s.ID,
			s.GuideID,
			s.SpecificDate,
			s.StartTime,
			s.EndTime,
			s.DurationMins,
			s.Capacity,
			s.PricePerPerson,
			s.IsAvailable,
			s.TouristCount,
			s.SyncedAt,
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertBatch - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertBatch - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	err := row.Scan(
		&s.ID,
		&s.GuideID,
		&s.SpecificDate,
		&s.StartTime,
		&s.EndTime,
		&s.DurationMins,
		&s.Capacity,
		&s.PricePerPerson,
		&s.IsAvailable,
		&s.TouristCount,
		&s.SyncedAt,
	)
	if err != nil {
		return nil, err
	}

	s.SpecificDate = domain.DateOnly(s.SpecificDate)
	return &s, nil
}

func (r *Repository) scanSlots(rows *sql.Rows) ([]*domain.AvailabilitySlot, error) {
	slots := make([]*domain.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

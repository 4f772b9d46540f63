package availabilityrule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/psqlbuilder"
)

const table = "service_availability_rules"

// Repository репозиторий правил доступности услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveByServiceID получает активное правило для услуги
// На практике активное правило не более одного (Upsert работает по service_id);
// при нескольких берём последнее обновлённое
func (r *Repository) GetActiveByServiceID(ctx context.Context, serviceID int64) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"service_id",
		"days_of_week",
		"specific_time_slots",
		"is_active",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"service_id": serviceID, "is_active": true}).
		OrderBy("updated_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceID - build select query: %v", ErrBuildQuery, err)
	}

	var rule domain.AvailabilityRule
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&rule.ServiceID,
		(*pq.Int64Array)(&rule.DaysOfWeek),
		(*pq.Int64Array)(&rule.SpecificTimeSlots),
		&rule.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByServiceID - scan rule: %v", ErrScanRow, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

// Upsert создает правило для услуги или заменяет существующее
// Повторная активация деактивированного правила происходит тем же путём
func (r *Repository) Upsert(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"service_id",
			"days_of_week",
			"specific_time_slots",
			"is_active",
		).
		Values(
			rule.ServiceID,
			pq.Int64Array(rule.DaysOfWeek),
			pq.Int64Array(rule.SpecificTimeSlots),
			true,
		).
		Suffix(`ON CONFLICT (service_id) DO UPDATE SET
			days_of_week = EXCLUDED.days_of_week,
			specific_time_slots = EXCLUDED.specific_time_slots,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	rule.IsActive = true
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// Deactivate мягко удаляет правило услуги (is_active = false)
func (r *Repository) Deactivate(ctx context.Context, serviceID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"service_id": serviceID, "is_active": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

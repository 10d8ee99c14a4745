package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/dbmetrics"
	"github.com/booking4u/booking-service/pkg/psqlbuilder"
)

const table = "business_slots_config"

var columns = []string{
	"id",
	"business_id",
	"service_id",
	"slot_step_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с конфигурацией слотов
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации слотов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndService получает конфигурацию конкретного уровня.
// serviceID = nil означает конфигурацию для всего бизнеса.
func (r *Repository) GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID})

	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndService - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndService - scan config: %v", ErrScanRow, err)
	}

	return config, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии:
// 1. Для конкретной услуги (если serviceID указан)
// 2. Для всего бизнеса
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BusinessSlotsConfig, error) {
	if serviceID != nil {
		config, err := r.GetByBusinessAndService(ctx, businessID, serviceID)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - service level: %v", ErrExecQuery, err)
		}
	}

	config, err := r.GetByBusinessAndService(ctx, businessID, nil)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - business level: %v", ErrExecQuery, err)
	}

	return nil, ErrConfigNotFound
}

// GetAllByBusiness получает все конфигурации бизнеса
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("service_id NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.BusinessSlotsConfig, 0)
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Upsert создает или обновляет конфигурацию для (business_id, service_id)
func (r *Repository) Upsert(ctx context.Context, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"business_id",
			"service_id",
			"slot_step_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			config.BusinessID,
			config.ServiceID,
			config.SlotStepMinutes,
			config.AdvanceBookingDays,
			config.MinBookingNoticeMinutes,
		).
		Suffix(`ON CONFLICT (business_id, COALESCE(service_id, 0)) DO UPDATE SET
			slot_step_minutes = EXCLUDED.slot_step_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&config.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.BusinessSlotsConfig, error) {
	var (
		config               domain.BusinessSlotsConfig
		serviceID            sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&config.ID,
		&config.BusinessID,
		&serviceID,
		&config.SlotStepMinutes,
		&config.AdvanceBookingDays,
		&config.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if serviceID.Valid {
		config.ServiceID = &serviceID.Int64
	}
	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}

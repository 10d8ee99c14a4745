package business

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/dbmetrics"
	"github.com/booking4u/booking-service/pkg/psqlbuilder"
)

// Repository читает бизнесы и их услуги
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория бизнесов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusiness получает бизнес вместе с расписанием работы
func (r *Repository) GetBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"category",
		"phone",
		"email",
		"is_active",
		"working_hours",
		"created_at",
		"updated_at",
	).
		From("businesses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - build select query: %v", ErrBuildQuery, err)
	}

	var (
		business     domain.Business
		phone, email sql.NullString
		hoursRaw     []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&business.ID,
		&business.OwnerID,
		&business.Name,
		&business.Category,
		&phone,
		&email,
		&business.IsActive,
		&hoursRaw,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBusinessNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusiness - scan business: %v", ErrScanRow, err)
	}

	if phone.Valid {
		business.Phone = &phone.String
	}
	if email.Valid {
		business.Email = &email.String
	}

	business.WorkingHours = domain.WorkingHours{}
	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &business.WorkingHours); err != nil {
			return nil, fmt.Errorf("%w: business id=%d: %v", ErrInvalidWorkingHours, id, err)
		}
	}

	return &business, nil
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"category",
		"duration_minutes",
		"price",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.Category,
		&service.DurationMinutes,
		&service.Price,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

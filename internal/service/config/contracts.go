package config

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BusinessSlotsConfig, error)
	GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BusinessSlotsConfig, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BusinessSlotsConfig, error)
	Upsert(ctx context.Context, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error)
}

// BusinessRepository интерфейс репозитория бизнесов и услуг
type BusinessRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

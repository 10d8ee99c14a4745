package get_available_slots

import (
	"context"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.Booking, error)
}

// BusinessRepository интерфейс репозитория бизнесов и услуг
type BusinessRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BusinessSlotsConfig, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

package create_booking

import (
	"context"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/slotlock"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker блокировка расписания бизнеса на дату
type SlotLocker interface {
	Lock(ctx context.Context, key string) (slotlock.UnlockFunc, error)
}

// Metrics счетчик исходов операций
type Metrics interface {
	IncBookingOperation(operation, outcome string)
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

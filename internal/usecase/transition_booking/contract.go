package transition_booking

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, reason *string, by domain.Role) (*domain.Booking, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
}

// StateMachine правила смены статусов
type StateMachine interface {
	Check(from, to domain.BookingStatus, role domain.Role) error
}

// Metrics счетчик исходов операций
type Metrics interface {
	IncBookingOperation(operation, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package bookings

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	GetStats(ctx context.Context, businessID int64) (*domain.BookingStats, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetBusiness(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package domain

import (
	"time"

	"github.com/booking4u/booking-service/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer appointment with a business
type Booking struct {
	ID              int64
	CustomerID      int64
	BusinessID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	Status          BookingStatus
	Notes           *string

	// Снимок услуги на момент бронирования
	ServiceName  string
	ServicePrice float64

	CancellationReason *string
	CancelledBy        *Role
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndTime returns StartTime + DurationMinutes
func (b *Booking) EndTime() (types.TimeString, error) {
	return b.StartTime.AddMinutes(b.DurationMinutes)
}

// OccupiesSlot returns true if the booking blocks its interval for other bookings
func (b *Booking) OccupiesSlot() bool {
	return b.Status.OccupiesSlot()
}

// IsTerminal returns true if no further transitions are possible
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// OccupiesSlot returns true for statuses that take part in overlap checks
func (s BookingStatus) OccupiesSlot() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookingsFilter фильтр для получения бронирований бизнеса
type BookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли завершенные и отмененные бронирования
}

// IsSingleDay returns true if the filter targets exactly one calendar day
func (f BookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

// BookingStats агрегированная статистика бронирований бизнеса
type BookingStats struct {
	BusinessID      int64
	Total           int
	ByStatus        map[BookingStatus]int
	UniqueCustomers int
	// Сумма цен завершенных бронирований (по снимку цены)
	CompletedRevenue float64
}

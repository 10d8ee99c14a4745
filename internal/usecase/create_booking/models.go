package create_booking

import (
	"time"

	"github.com/booking4u/booking-service/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64            // ID клиента
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	CustomerID      int64
	BusinessID      int64
	ServiceID       int64
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Status          string

	// Снимок услуги
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

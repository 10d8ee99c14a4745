package transition_booking

import "github.com/booking4u/booking-service/internal/domain"

// Request модель запроса на смену статуса
type Request struct {
	BookingID    int64
	Actor        domain.Actor
	TargetStatus domain.BookingStatus
	Reason       *string // Причина отмены (только для cancelled)
}

package transition_booking

import (
	"github.com/booking4u/booking-service/internal/domain"
	transitionBooking "github.com/booking4u/booking-service/internal/usecase/transition_booking"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"` // Причина отмены
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *transitionBooking.Request {
	return &transitionBooking.Request{
		BookingID:    bookingID,
		Actor:        actor,
		TargetStatus: domain.BookingStatus(r.Status),
		Reason:       r.Reason,
	}
}

package transition_booking

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
	transitionBooking "github.com/booking4u/booking-service/internal/usecase/transition_booking"
)

type TransitionBookingUseCase interface {
	Execute(ctx context.Context, req *transitionBooking.Request) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

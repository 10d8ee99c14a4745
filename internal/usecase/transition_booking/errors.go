package transition_booking

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("transition_booking: %w", domain.ErrValidation)

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("transition_booking: booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не участник бронирования
	ErrAccessDenied = fmt.Errorf("transition_booking: not a participant of the booking: %w", domain.ErrForbidden)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("transition_booking: %w", domain.ErrStorage)
)

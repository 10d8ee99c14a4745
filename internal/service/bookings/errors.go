package bookings

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking %w", domain.ErrNotFound)

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("bookings: business %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("bookings: access denied: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: %w", domain.ErrValidation)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("bookings: %w", domain.ErrStorage)
)

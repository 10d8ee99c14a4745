package get_available_slots

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: %w", domain.ErrValidation)

	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = fmt.Errorf("get_available_slots: business %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("get_available_slots: service %w", domain.ErrNotFound)

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = fmt.Errorf("get_available_slots: date is in the past: %w", domain.ErrOutOfHours)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = fmt.Errorf("get_available_slots: date is too far in the future: %w", domain.ErrOutOfHours)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("get_available_slots: %w", domain.ErrStorage)
)

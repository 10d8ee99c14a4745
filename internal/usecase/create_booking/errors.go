package create_booking

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: %w", domain.ErrValidation)

	// ErrBusinessNotFound возвращается, когда бизнес не найден или неактивен
	ErrBusinessNotFound = fmt.Errorf("create_booking: business %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена, неактивна или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("create_booking: service %w", domain.ErrNotFound)

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = fmt.Errorf("create_booking: business is closed on this date: %w", domain.ErrOutOfHours)

	// ErrInvalidTimeSlot возвращается, когда время не совпадает с началом слота
	ErrInvalidTimeSlot = fmt.Errorf("create_booking: start time is not a slot start: %w", domain.ErrOutOfHours)

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = fmt.Errorf("create_booking: date is in the past: %w", domain.ErrOutOfHours)

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = fmt.Errorf("create_booking: date is too far in the future: %w", domain.ErrOutOfHours)

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = fmt.Errorf("create_booking: too late to book this slot: %w", domain.ErrOutOfHours)

	// ErrInternal возвращается при ошибках хранилища и блокировки
	ErrInternal = fmt.Errorf("create_booking: %w", domain.ErrStorage)
)

package domain

import (
	"errors"
	"fmt"
)

// Таксономия ошибок ядра бронирования.
// Все ошибки use case'ов оборачивают один из этих sentinel'ов,
// HTTP слой сопоставляет их со статус-кодами через errors.Is.
var (
	// ErrValidation некорректные входные данные (формат даты/времени, длительность)
	ErrValidation = errors.New("validation error")

	// ErrNotFound бизнес, услуга или бронирование не найдены
	ErrNotFound = errors.New("not found")

	// ErrOutOfHours слот вне рабочего времени или бизнес закрыт в этот день
	ErrOutOfHours = errors.New("slot is outside business hours")

	// ErrSlotConflict слот пересекается с существующим бронированием
	ErrSlotConflict = errors.New("slot conflicts with an existing booking")

	// ErrInvalidTransition недопустимая смена статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden у пользователя нет прав на операцию
	ErrForbidden = errors.New("forbidden")

	// ErrStorage ошибка хранилища, пробрасывается без повторов
	ErrStorage = errors.New("storage error")
)

// SlotConflictError пересечение с конкретным бронированием.
// ConflictingBookingID = 0, если конфликт обнаружен ограничением БД.
type SlotConflictError struct {
	ConflictingBookingID int64
}

func (e *SlotConflictError) Error() string {
	if e.ConflictingBookingID == 0 {
		return ErrSlotConflict.Error()
	}
	return fmt.Sprintf("%s: booking id=%d", ErrSlotConflict.Error(), e.ConflictingBookingID)
}

// Is позволяет сопоставлять SlotConflictError с ErrSlotConflict
func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}

// TransitionError недопустимый переход между статусами
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition.Error(), e.From, e.To)
}

// Is позволяет сопоставлять TransitionError с ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// Outcome короткое имя класса ошибки для метрик и трассировки
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrOutOfHours):
		return "out_of_hours"
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrStorage):
		return "storage"
	default:
		return "error"
	}
}

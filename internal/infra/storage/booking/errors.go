package booking

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда БД отклонила запись из-за пересечения слотов
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrStatusChanged возвращается, когда статус изменился между чтением и обновлением
	ErrStatusChanged = errors.New("booking.repository: booking status changed concurrently")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// Коды ошибок PostgreSQL
const (
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
)

// IsSlotConflict возвращает true, если ошибка означает занятый слот:
// нарушение exclusion constraint или конфликт сериализации
func IsSlotConflict(err error) bool {
	if errors.Is(err, ErrSlotNotAvailable) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqExclusionViolation || pqErr.Code == pqSerializationFailure
	}
	return false
}

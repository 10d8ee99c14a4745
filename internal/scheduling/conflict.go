package scheduling

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от начала суток
type Interval struct {
	Start int
	End   int
}

// NewInterval создает интервал по времени начала и длительности
func NewInterval(start types.TimeString, durationMinutes int) (Interval, error) {
	if durationMinutes <= 0 {
		return Interval{}, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, durationMinutes)
	}
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return Interval{Start: s, End: s + durationMinutes}, nil
}

// BookingInterval возвращает интервал, занимаемый бронированием
func BookingInterval(b *domain.Booking) (Interval, error) {
	return NewInterval(b.StartTime, b.DurationMinutes)
}

// Overlaps [s,e) и [s',e') пересекаются тогда и только тогда, когда s < e' и s' < e.
// Интервалы, которые только касаются границами, не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// ConflictResult результат проверки слота
type ConflictResult struct {
	Available   bool
	Conflicting *domain.Booking
}

// Err возвращает *domain.SlotConflictError, если слот занят
func (r ConflictResult) Err() error {
	if r.Available {
		return nil
	}
	return &domain.SlotConflictError{ConflictingBookingID: r.Conflicting.ID}
}

// CheckConflict проверяет, пересекается ли предлагаемый интервал с существующими
// бронированиями. Учитываются только бронирования в статусах pending и confirmed.
// Возвращается первое найденное пересечение.
func CheckConflict(proposed Interval, existing []*domain.Booking) ConflictResult {
	for _, booking := range existing {
		if booking == nil || !booking.OccupiesSlot() {
			continue
		}

		interval, err := BookingInterval(booking)
		if err != nil {
			// Записи в БД проходят валидацию, битое время не встречается
			continue
		}

		if proposed.Overlaps(interval) {
			return ConflictResult{Available: false, Conflicting: booking}
		}
	}

	return ConflictResult{Available: true}
}

// MarkAvailability помечает слоты, пересекающиеся с существующими бронированиями
func MarkAvailability(slots []domain.Slot, existing []*domain.Booking) []domain.Slot {
	result := make([]domain.Slot, len(slots))

	for i, slot := range slots {
		result[i] = slot

		start, errStart := slot.StartTime.Minutes()
		end, errEnd := slot.EndTime.Minutes()
		if errStart != nil || errEnd != nil {
			result[i].Available = false
			continue
		}

		result[i].Available = CheckConflict(Interval{Start: start, End: end}, existing).Available
	}

	return result
}

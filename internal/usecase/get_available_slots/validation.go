package get_available_slots

import (
	"fmt"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и укладывается в advanceBookingDays
func validateDate(date, now time.Time, config *domain.BusinessSlotsConfig) error {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	if date.Before(today) {
		return ErrInvalidDate
	}

	if config.HasAdvanceBookingLimit() && date.After(today.AddDate(0, 0, config.AdvanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, config.AdvanceBookingDays)
	}

	return nil
}

// isBookable проверяет, что до начала слота осталось не меньше minBookingNoticeMinutes
func isBookable(date time.Time, start types.TimeString, now time.Time, minBookingNoticeMinutes int) bool {
	startAt, err := start.OnDate(date)
	if err != nil {
		return false
	}
	return !startAt.Before(now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute))
}

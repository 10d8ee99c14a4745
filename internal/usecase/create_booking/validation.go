package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и укладывается в advanceBookingDays
func validateDate(bookingDate time.Time, now time.Time, advanceBookingDays int) error {
	today := truncateToDay(now)

	if bookingDate.Before(today) {
		return ErrInvalidDate
	}

	// 0 = без ограничения
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, advanceBookingDays)
	if bookingDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateNotice проверяет, что до начала слота осталось не меньше minBookingNoticeMinutes.
// Начавшиеся слоты бронировать нельзя и при нулевом ограничении.
func validateNotice(bookingDate time.Time, startTime types.TimeString, now time.Time, minBookingNoticeMinutes int) error {
	start, err := startTime.OnDate(bookingDate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	earliest := now.Add(time.Duration(minBookingNoticeMinutes) * time.Minute)
	if start.Before(earliest) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minBookingNoticeMinutes)
	}

	return nil
}

// truncateToDay возвращает полночь того же дня в том же часовом поясе
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

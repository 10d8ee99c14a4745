package transition_booking

import (
	"fmt"
	"unicode/utf8"

	"github.com/booking4u/booking-service/internal/domain"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: actor userID must be positive", ErrInvalidInput)
	}

	if !req.TargetStatus.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, req.TargetStatus)
	}

	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}

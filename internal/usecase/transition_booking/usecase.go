package transition_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/booking4u/booking-service/internal/domain"
	bookingRepo "github.com/booking4u/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	"github.com/booking4u/booking-service/pkg/tracing"
)

const operation = "transition_booking"

// UseCase use case для смены статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	stateMachine StateMachine
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	stateMachine StateMachine,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		stateMachine: stateMachine,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute переводит бронирование в новый статус.
// Статус обновляется, только если он не изменился с момента чтения.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (result *domain.Booking, err error) {
	ctx, span := tracing.StartSpan(ctx, "TransitionBooking",
		attribute.Int64("booking.id", req.BookingID),
		attribute.String("booking.target_status", string(req.TargetStatus)),
		attribute.String("actor.role", string(req.Actor.Role)),
	)
	defer func() {
		uc.metrics.IncBookingOperation(operation, domain.Outcome(err))
		tracing.End(span, err)
	}()

	uc.logger.Info("TransitionBooking: booking=%d, actor=%d (%s), target=%s",
		req.BookingID, req.Actor.UserID, req.Actor.Role, req.TargetStatus)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionBooking: validation failed: %v", err)
		return nil, err
	}

	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("TransitionBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("TransitionBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if err := uc.authorize(ctx, booking, req.Actor); err != nil {
		uc.logger.Warn("TransitionBooking: actor %d (%s) denied for booking id=%d: %v",
			req.Actor.UserID, req.Actor.Role, booking.ID, err)
		return nil, err
	}

	if err := uc.stateMachine.Check(booking.Status, req.TargetStatus, req.Actor.Role); err != nil {
		uc.logger.Warn("TransitionBooking: booking id=%d: %v", booking.ID, err)
		return nil, err
	}

	var reason *string
	if req.TargetStatus == domain.StatusCancelled {
		reason = req.Reason
	}

	updated, err := uc.bookingRepo.UpdateStatus(ctx, booking.ID, booking.Status, req.TargetStatus, reason, req.Actor.Role)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrStatusChanged):
			uc.logger.Warn("TransitionBooking: booking id=%d changed concurrently", booking.ID)
			return nil, &domain.TransitionError{From: booking.Status, To: req.TargetStatus}
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			uc.logger.Error("TransitionBooking: failed to update booking id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("TransitionBooking: booking id=%d %s -> %s", booking.ID, booking.Status, updated.Status)

	return updated, nil
}

// authorize проверяет, что пользователь участник бронирования:
// клиент владеет бронированием, бизнес владеет бизнесом бронирования
func (uc *UseCase) authorize(ctx context.Context, booking *domain.Booking, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if booking.CustomerID != actor.UserID {
			return ErrAccessDenied
		}
		return nil
	case domain.RoleBusiness:
		business, err := uc.businessRepo.GetBusiness(ctx, booking.BusinessID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrBusinessNotFound) {
				return ErrAccessDenied
			}
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}
		if !business.IsOwnedBy(actor.UserID) {
			return ErrAccessDenied
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown role %q", ErrAccessDenied, actor.Role)
	}
}

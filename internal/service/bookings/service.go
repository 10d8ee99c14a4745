package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
	bookingRepo "github.com/booking4u/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	"github.com/booking4u/booking-service/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID.
// Доступно клиенту бронирования, владельцу бизнеса и администратору.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d (%s)", id, actor.UserID, actor.Role)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkParticipantAccess(ctx, booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента.
// Клиент видит только свои бронирования, администратор любые.
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if !req.Actor.IsAdmin() && req.Actor.UserID != req.CustomerID {
		s.logger.Warn("GetCustomerBookings: user=%d cannot read bookings of customer=%d", req.Actor.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования бизнеса с фильтрацией.
// Доступно владельцу бизнеса и администратору.
//
// Без периода и статуса возвращаются только активные бронирования.
// StartDate == EndDate выбирает один день, отсортированный по времени начала.
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d, user=%d", req.BusinessID, req.Actor.UserID)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.Actor); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessStats возвращает агрегированную статистику бронирований бизнеса
func (s *Service) GetBusinessStats(ctx context.Context, businessID int64, actor domain.Actor) (*models.StatsResponse, error) {
	s.logger.Info("GetBusinessStats: business=%d, user=%d", businessID, actor.UserID)

	if err := s.checkOwnerAccess(ctx, businessID, actor); err != nil {
		return nil, err
	}

	stats, err := s.bookingRepo.GetStats(ctx, businessID)
	if err != nil {
		s.logger.Error("GetBusinessStats: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetBusinessStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// checkParticipantAccess клиент бронирования, владелец бизнеса или администратор
func (s *Service) checkParticipantAccess(ctx context.Context, booking *domain.Booking, actor domain.Actor) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleCustomer:
		if booking.CustomerID == actor.UserID {
			return nil
		}
		return ErrAccessDenied
	case domain.RoleBusiness:
		if err := s.checkOwnerAccess(ctx, booking.BusinessID, actor); err != nil {
			if errors.Is(err, ErrBusinessNotFound) {
				return ErrAccessDenied
			}
			return err
		}
		return nil
	default:
		return ErrAccessDenied
	}
}

// checkOwnerAccess проверяет, что пользователь владеет бизнесом
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != domain.RoleBusiness {
		s.logger.Warn("checkOwnerAccess: role %q cannot manage business=%d", actor.Role, businessID)
		return ErrAccessDenied
	}

	business, err := s.businessRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(actor.UserID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not the owner of business=%d", actor.UserID, businessID)
		return ErrAccessDenied
	}

	return nil
}

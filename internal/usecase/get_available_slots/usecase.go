package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	configRepo "github.com/booking4u/booking-service/internal/infra/storage/config"
	"github.com/booking4u/booking-service/internal/scheduling"
)

// UseCase use case для получения слотов с признаком доступности
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	configRepo   ConfigRepository
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	configRepo ConfigRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		configRepo:   configRepo,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает все слоты дня. Занятые слоты и слоты внутри окна
// minBookingNoticeMinutes помечаются недоступными.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	service, err := uc.businessRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BusinessID != req.BusinessID || !service.IsActive {
		return nil, ErrServiceNotFound
	}

	business, err := uc.businessRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		return nil, ErrBusinessNotFound
	}

	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, &req.ServiceID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		config = domain.DefaultSlotsConfig(req.BusinessID)
	}

	if err := validateDate(date, now, config); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:            date,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		IsOpen:          business.WorkingHours.ForDate(date).IsOpen,
		Slots:           []Slot{},
	}

	generated, err := scheduling.SlotsForDate(business.WorkingHours, date, service.DurationMinutes, config.StepFor(service.DurationMinutes))
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for business id=%d: %v", req.BusinessID, err)
		return nil, err
	}
	if len(generated) == 0 {
		uc.logger.Info("GetAvailableSlots: no slots for business id=%d on %s", req.BusinessID, date.Format(domain.DateFormat))
		return resp, nil
	}

	bookings, err := uc.bookingRepo.GetActiveByBusinessAndDate(ctx, req.BusinessID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	for _, slot := range scheduling.MarkAvailability(generated, bookings) {
		resp.Slots = append(resp.Slots, Slot{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Available: slot.Available && isBookable(date, slot.StartTime, now, config.MinBookingNoticeMinutes),
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(resp.Slots), req.BusinessID, req.ServiceID, date.Format(domain.DateFormat))

	return resp, nil
}

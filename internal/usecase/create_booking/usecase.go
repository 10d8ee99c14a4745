package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/booking4u/booking-service/internal/domain"
	bookingRepo "github.com/booking4u/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	configRepo "github.com/booking4u/booking-service/internal/infra/storage/config"
	"github.com/booking4u/booking-service/internal/scheduling"
	"github.com/booking4u/booking-service/pkg/slotlock"
	"github.com/booking4u/booking-service/pkg/tracing"
)

const operation = "create_booking"

// Settings параметры use case
type Settings struct {
	// Location часовой пояс, в котором заданы рабочие часы бизнесов
	Location *time.Location
	// LockTimeout максимальное ожидание блокировки расписания
	LockTimeout time.Duration
}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	configRepo   ConfigRepository
	txManager    TransactionManager
	locker       SlotLocker
	metrics      Metrics
	timeProvider TimeProvider
	settings     Settings
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	locker SlotLocker,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.LockTimeout <= 0 {
		settings.LockTimeout = 5 * time.Second
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		configRepo:   configRepo,
		txManager:    txManager,
		locker:       locker,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		settings:     settings,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования.
// Проверка пересечений и вставка выполняются под блокировкой расписания
// бизнеса на дату внутри сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracing.StartSpan(ctx, "CreateBooking",
		attribute.Int64("booking.business_id", req.BusinessID),
		attribute.Int64("booking.service_id", req.ServiceID),
		attribute.String("booking.start_time", req.StartTime.String()),
	)
	defer func() {
		uc.metrics.IncBookingOperation(operation, domain.Outcome(err))
		tracing.End(span, err)
	}()

	uc.logger.Info("CreateBooking: customer=%d, business=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	loc := uc.settings.Location
	now := uc.timeProvider.Now().In(loc)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)

	// 2. Получаем услугу
	service, err := uc.businessRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.BusinessID != req.BusinessID || !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is inactive or belongs to business id=%d",
			req.ServiceID, service.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 3. Получаем бизнес
	business, err := uc.businessRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	if !business.IsActive {
		uc.logger.Warn("CreateBooking: business id=%d is inactive", req.BusinessID)
		return nil, ErrBusinessNotFound
	}

	// 4. Конфигурация слотов с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, &req.ServiceID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateBooking: failed to get config: %v", err)
			return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		config = domain.DefaultSlotsConfig(req.BusinessID)
	}

	// 5. Дата и время укладываются в рабочие часы и окна бронирования
	if err := validateDate(date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	slots, err := scheduling.SlotsForDate(business.WorkingHours, date, service.DurationMinutes, config.StepFor(service.DurationMinutes))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to generate slots for business id=%d: %v", req.BusinessID, err)
		return nil, err
	}
	if len(slots) == 0 {
		uc.logger.Warn("CreateBooking: business id=%d is closed on %s", req.BusinessID, date.Format(domain.DateFormat))
		return nil, ErrBusinessClosed
	}
	if _, ok := scheduling.FindSlot(slots, req.StartTime); !ok {
		uc.logger.Warn("CreateBooking: %s is not a slot start", req.StartTime)
		return nil, ErrInvalidTimeSlot
	}

	if err := validateNotice(date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	proposed, err := scheduling.NewInterval(req.StartTime, service.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// 6. Блокировка расписания бизнеса на дату
	lockCtx, cancel := context.WithTimeout(ctx, uc.settings.LockTimeout)
	defer cancel()

	unlock, err := uc.locker.Lock(lockCtx, slotlock.Key(req.BusinessID, date))
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock schedule of business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	defer unlock()

	var result *domain.Booking

	// 7. Проверка пересечений и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.GetActiveByBusinessAndDate(txCtx, req.BusinessID, date)
		if err != nil {
			if bookingRepo.IsSlotConflict(err) {
				return &domain.SlotConflictError{}
			}
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if conflict := scheduling.CheckConflict(proposed, existing); !conflict.Available {
			uc.logger.Warn("CreateBooking: slot %s conflicts with booking id=%d",
				req.StartTime, conflict.Conflicting.ID)
			return conflict.Err()
		}

		booking := &domain.Booking{
			CustomerID:      req.CustomerID,
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			BookingDate:     date,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			Notes:           req.Notes,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if bookingRepo.IsSlotConflict(err) {
				return &domain.SlotConflictError{}
			}
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Конфликт сериализации может всплыть только на COMMIT
		if !errors.Is(err, domain.ErrSlotConflict) && bookingRepo.IsSlotConflict(err) {
			err = &domain.SlotConflictError{}
		}
		if !errors.Is(err, domain.ErrSlotConflict) && !errors.Is(err, domain.ErrStorage) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		uc.logger.Warn("CreateBooking: transaction failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return toResponse(result), nil
}

func toResponse(b *domain.Booking) *Response {
	endTime, _ := b.EndTime()

	return &Response{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		BusinessID:      b.BusinessID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         endTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

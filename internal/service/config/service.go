package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
	businessRepo "github.com/booking4u/booking-service/internal/infra/storage/business"
	configRepo "github.com/booking4u/booking-service/internal/infra/storage/config"
	"github.com/booking4u/booking-service/internal/service/config/models"
)

// Service сервис для работы с конфигурацией слотов
type Service struct {
	configRepo   ConfigRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// GetEffective получает действующую конфигурацию с учетом иерархии.
// Публичный метод. Приоритет: услуга > бизнес > значения по умолчанию.
func (s *Service) GetEffective(ctx context.Context, businessID int64, serviceID *int64) (*models.ConfigResponse, error) {
	s.logger.Info("GetEffective: fetching config for business=%d, service=%v", businessID, serviceID)

	if businessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if _, err := s.getBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, businessID, serviceID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("GetEffective: repository error: %v", err)
			return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
		}
		s.logger.Info("GetEffective: no config for business=%d, using defaults", businessID)
		config = domain.DefaultSlotsConfig(businessID)
		return models.FromDomainConfig(config), nil
	}

	level := "business"
	if config.IsServiceSpecific() {
		level = "service"
	}
	s.logger.Info("GetEffective: using config id=%d (level: %s)", config.ID, level)

	return models.FromDomainConfig(config), nil
}

// GetAllByBusiness получает все конфигурации бизнеса.
// Доступно владельцу бизнеса и администратору.
func (s *Service) GetAllByBusiness(ctx context.Context, businessID int64, actor domain.Actor) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllByBusiness: fetching configs for business=%d by user=%d", businessID, actor.UserID)

	if err := s.checkOwnerAccess(ctx, businessID, actor); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAllByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAllByBusiness - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или обновляет конфигурацию бизнеса или отдельной услуги.
// Доступно владельцу бизнеса и администратору.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: business=%d, service=%v by user=%d", req.BusinessID, req.ServiceID, req.Actor.UserID)

	if err := s.checkOwnerAccess(ctx, req.BusinessID, req.Actor); err != nil {
		return nil, err
	}

	if req.ServiceID != nil {
		service, err := s.businessRepo.GetService(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, businessRepo.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if service.BusinessID != req.BusinessID {
			s.logger.Warn("Upsert: service id=%d belongs to business=%d", service.ID, service.BusinessID)
			return nil, ErrServiceNotFound
		}
	}

	config, err := s.configRepo.GetByBusinessAndService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Upsert: failed to get existing config: %v", err)
			return nil, fmt.Errorf("%w: failed to get existing config: %v", ErrInternal, err)
		}
		config = domain.DefaultSlotsConfig(req.BusinessID)
		config.ServiceID = req.ServiceID
	}

	req.ApplyToConfig(config)

	if err := validateConfigData(config); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.configRepo.Upsert(ctx, config)
	if err != nil {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved config id=%d for business=%d", saved.ID, saved.BusinessID)
	return models.FromDomainConfig(saved), nil
}

func (s *Service) getBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("getBusiness: business id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("getBusiness: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return business, nil
}

// checkOwnerAccess проверяет, что пользователь владеет бизнесом
func (s *Service) checkOwnerAccess(ctx context.Context, businessID int64, actor domain.Actor) error {
	business, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != domain.RoleBusiness || !business.IsOwnedBy(actor.UserID) {
		s.logger.Warn("checkOwnerAccess: user=%d (%s) cannot manage business=%d", actor.UserID, actor.Role, businessID)
		return ErrAccessDenied
	}
	return nil
}

// validateConfigData валидирует параметры конфигурации
func validateConfigData(c *domain.BusinessSlotsConfig) error {
	if c.SlotStepMinutes < domain.MinSlotStepMinutes || c.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

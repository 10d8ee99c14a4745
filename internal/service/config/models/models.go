package models

import (
	"time"

	"github.com/booking4u/booking-service/internal/domain"
)

// Request модели

// UpsertConfigRequest запрос на создание или обновление конфигурации.
// Поля настроек опциональны: обновляются только переданные значения,
// остальные берутся из существующей конфигурации или значений по умолчанию.
type UpsertConfigRequest struct {
	Actor                   domain.Actor `json:"-"`
	BusinessID              int64        `json:"-"`
	ServiceID               *int64       `json:"serviceId,omitempty"` // NULL = для всех услуг
	SlotStepMinutes         *int         `json:"slotStepMinutes,omitempty"`
	AdvanceBookingDays      *int         `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int         `json:"minBookingNoticeMinutes,omitempty"`
}

// ApplyToConfig применяет обновления к конфигурации
func (r *UpsertConfigRequest) ApplyToConfig(config *domain.BusinessSlotsConfig) {
	if r.SlotStepMinutes != nil {
		config.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// Response модели

// ConfigResponse ответ с данными конфигурации слотов
type ConfigResponse struct {
	ID                      int64      `json:"id,omitempty"`
	BusinessID              int64      `json:"businessId"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	SlotStepMinutes         int        `json:"slotStepMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"` // true, если бизнес не настраивал слоты
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BusinessSlotsConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		ID:                      c.ID,
		BusinessID:              c.BusinessID,
		ServiceID:               c.ServiceID,
		SlotStepMinutes:         c.SlotStepMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		IsDefault:               c.ID == 0,
	}
	if !c.CreatedAt.IsZero() {
		resp.CreatedAt = &c.CreatedAt
		resp.UpdatedAt = &c.UpdatedAt
	}

	return resp
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BusinessSlotsConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs = append(resp.Configs, *configResp)
		}
	}

	return resp
}

package domain

import "time"

// BusinessSlotsConfig настройки бронирования бизнеса.
// Поддерживает иерархию:
// 1. Для конкретной услуги (business_id, service_id)
// 2. Для всего бизнеса (business_id, NULL)
type BusinessSlotsConfig struct {
	ID                      int64
	BusinessID              int64
	ServiceID               *int64 // NULL = для всех услуг
	SlotStepMinutes         int    // 0 = шаг равен длительности услуги
	AdvanceBookingDays      int    // 0 = без ограничения
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSlotsConfig returns the configuration used when a business has none
func DefaultSlotsConfig(businessID int64) *BusinessSlotsConfig {
	return &BusinessSlotsConfig{
		BusinessID:              businessID,
		SlotStepMinutes:         DefaultSlotStepMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsServiceSpecific returns true if this configuration is for a specific service
func (c *BusinessSlotsConfig) IsServiceSpecific() bool {
	return c.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *BusinessSlotsConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// StepFor returns the slot step for a service of the given duration
func (c *BusinessSlotsConfig) StepFor(durationMinutes int) int {
	if c.SlotStepMinutes > 0 {
		return c.SlotStepMinutes
	}
	return durationMinutes
}

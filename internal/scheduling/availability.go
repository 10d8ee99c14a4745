// Package scheduling содержит правила расписания бронирований:
// генерацию слотов по рабочим часам, проверку пересечений и
// допустимые переходы статусов.
package scheduling

import (
	"fmt"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/pkg/types"
)

// GenerateSlots генерирует слоты длительностью durationMinutes с шагом stepMinutes
// от открытия до закрытия. stepMinutes = 0 означает шаг, равный длительности.
// Если бизнес в этот день закрыт, возвращается пустой список без ошибки.
func GenerateSlots(schedule domain.DaySchedule, durationMinutes, stepMinutes int) ([]domain.Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", domain.ErrValidation, durationMinutes)
	}
	if stepMinutes < 0 {
		return nil, fmt.Errorf("%w: step must not be negative, got %d", domain.ErrValidation, stepMinutes)
	}
	if stepMinutes == 0 {
		stepMinutes = durationMinutes
	}

	if !schedule.IsOpen {
		return []domain.Slot{}, nil
	}

	openTime, err := types.NewTimeStringFromString(schedule.Open)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid open time: %v", domain.ErrValidation, err)
	}
	closeTime, err := types.NewTimeStringFromString(schedule.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid close time: %v", domain.ErrValidation, err)
	}

	open, _ := openTime.Minutes()
	closing, _ := closeTime.Minutes()
	if open >= closing {
		return nil, fmt.Errorf("%w: open time %s must be before close time %s", domain.ErrValidation, openTime, closeTime)
	}

	slots := make([]domain.Slot, 0, (closing-open)/stepMinutes+1)
	for start := open; start+durationMinutes <= closing; start += stepMinutes {
		startTime, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		endTime, err := types.NewTimeStringFromMinutes(start + durationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		slots = append(slots, domain.Slot{
			StartTime: startTime,
			EndTime:   endTime,
			Available: true,
		})
	}

	return slots, nil
}

// SlotsForDate генерирует слоты на конкретную дату по расписанию бизнеса
func SlotsForDate(hours domain.WorkingHours, date time.Time, durationMinutes, stepMinutes int) ([]domain.Slot, error) {
	return GenerateSlots(hours.ForDate(date), durationMinutes, stepMinutes)
}

// FindSlot ищет слот, начинающийся в startTime
func FindSlot(slots []domain.Slot, startTime types.TimeString) (domain.Slot, bool) {
	for _, slot := range slots {
		if slot.StartTime.Equal(startTime) {
			return slot, true
		}
	}
	return domain.Slot{}, false
}

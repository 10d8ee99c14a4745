package get_available_slots

import (
	"time"

	"github.com/booking4u/booking-service/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Дата (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	BusinessID      int64
	ServiceID       int64
	DurationMinutes int
	IsOpen          bool // false, если бизнес закрыт в этот день
	Slots           []Slot
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

package domain

import (
	"strings"
	"time"
)

// Business бизнес, предоставляющий услуги
type Business struct {
	ID           int64
	OwnerID      int64
	Name         string
	Category     string
	Phone        *string
	Email        *string
	IsActive     bool
	WorkingHours WorkingHours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOwnedBy returns true if the user owns the business
func (b *Business) IsOwnedBy(userID int64) bool {
	return b.OwnerID == userID
}

// DaySchedule расписание на один день недели
type DaySchedule struct {
	IsOpen bool   `json:"isOpen"`
	Open   string `json:"open"`  // "HH:MM"
	Close  string `json:"close"` // "HH:MM"
}

// WorkingHours расписание по дням недели, ключ - название дня ("monday", ...)
type WorkingHours map[string]DaySchedule

// ForDate returns the schedule for the weekday of the date.
// Missing days are treated as closed.
func (w WorkingHours) ForDate(date time.Time) DaySchedule {
	return w.ForWeekday(date.Weekday())
}

// ForWeekday returns the schedule for the weekday
func (w WorkingHours) ForWeekday(day time.Weekday) DaySchedule {
	schedule, ok := w[strings.ToLower(day.String())]
	if !ok {
		return DaySchedule{IsOpen: false}
	}
	return schedule
}

// Service услуга бизнеса
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Category        string
	DurationMinutes int
	Price           float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

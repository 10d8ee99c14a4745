package models

import (
	"errors"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("start date is after end date")
)

// Request модели

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	Actor      domain.Actor
	CustomerID int64
	Status     *string // Фильтр по статусу (опционально)
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	Actor           domain.Actor
	BusinessID      int64
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		BusinessID:      r.BusinessID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	BusinessID      int64  `json:"businessId"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`   // "10:00"
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Снимок услуги
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// StatsResponse статистика бронирований бизнеса
type StatsResponse struct {
	BusinessID       int64          `json:"businessId"`
	Total            int            `json:"total"`
	ByStatus         map[string]int `json:"byStatus"`
	UniqueCustomers  int            `json:"uniqueCustomers"`
	CompletedRevenue float64        `json:"completedRevenue"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		BusinessID:         b.BusinessID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if end, err := b.EndTime(); err == nil {
		resp.EndTime = end.String()
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainStats конвертирует статистику в DTO
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	resp := &StatsResponse{
		BusinessID:       s.BusinessID,
		Total:            s.Total,
		ByStatus:         make(map[string]int, len(s.ByStatus)),
		UniqueCustomers:  s.UniqueCustomers,
		CompletedRevenue: s.CompletedRevenue,
	}
	for status, count := range s.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

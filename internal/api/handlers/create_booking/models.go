package create_booking

import (
	"fmt"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	createBooking "github.com/booking4u/booking-service/internal/usecase/create_booking"
	"github.com/booking4u/booking-service/pkg/types"
)

var (
	errInvalidDate = fmt.Errorf("invalid booking date")
	errInvalidTime = fmt.Errorf("invalid start time")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID  int64   `json:"businessId"`
	ServiceID   int64   `json:"serviceId"`
	BookingDate string  `json:"bookingDate"` // "2025-10-15"
	StartTime   string  `json:"startTime"`   // "10:00"
	Notes       *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	CustomerID      int64   `json:"customerId"`
	BusinessID      int64   `json:"businessId"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		CustomerID: customerID,
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		Date:       bookingDate,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}

package get_business_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день и имеет приоритет над startDate/endDate.
func ToServiceRequest(businessID int64, actor domain.Actor, query url.Values) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		Actor:      actor,
		BusinessID: businessID,
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if startStr := query.Get("startDate"); startStr != "" {
			start, err := time.Parse(domain.DateFormat, startStr)
			if err != nil {
				return nil, fmt.Errorf("invalid startDate: %w", err)
			}
			req.StartDate = &start
		}
		if endStr := query.Get("endDate"); endStr != "" {
			end, err := time.Parse(domain.DateFormat, endStr)
			if err != nil {
				return nil, fmt.Errorf("invalid endDate: %w", err)
			}
			req.EndDate = &end
		}
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

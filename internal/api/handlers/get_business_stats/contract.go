package get_business_stats

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/service/bookings/models"
)

type StatsService interface {
	GetBusinessStats(ctx context.Context, businessID int64, actor domain.Actor) (*models.StatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

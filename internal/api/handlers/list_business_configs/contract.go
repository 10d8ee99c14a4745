package list_business_configs

import (
	"context"

	"github.com/booking4u/booking-service/internal/domain"
	"github.com/booking4u/booking-service/internal/service/config/models"
)

type ConfigService interface {
	GetAllByBusiness(ctx context.Context, businessID int64, actor domain.Actor) (*models.ConfigListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package get_business_config

import (
	"context"

	"github.com/booking4u/booking-service/internal/service/config/models"
)

type ConfigService interface {
	GetEffective(ctx context.Context, businessID int64, serviceID *int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

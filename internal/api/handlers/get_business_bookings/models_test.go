package get_business_bookings_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/booking4u/booking-service/internal/api/handlers/get_business_bookings"
	"github.com/booking4u/booking-service/internal/domain"
)

func TestToServiceRequest(t *testing.T) {
	actor := domain.Actor{UserID: 200, Role: domain.RoleBusiness}

	t.Run("single date wins over range", func(t *testing.T) {
		req, err := handler.ToServiceRequest(10, actor, url.Values{
			"date":      {"2025-06-02"},
			"startDate": {"2025-01-01"},
			"status":    {"confirmed"},
		})
		require.NoError(t, err)
		require.NotNil(t, req.StartDate)
		assert.True(t, req.StartDate.Equal(*req.EndDate))
		assert.Equal(t, "confirmed", *req.Status)
	})

	t.Run("range", func(t *testing.T) {
		req, err := handler.ToServiceRequest(10, actor, url.Values{
			"startDate":       {"2025-06-01"},
			"endDate":         {"2025-06-30"},
			"includeInactive": {"true"},
		})
		require.NoError(t, err)
		assert.True(t, req.IncludeInactive)
		assert.Equal(t, 30, req.EndDate.Day())
	})

	t.Run("invalid values", func(t *testing.T) {
		for _, q := range []url.Values{
			{"date": {"2025/06/02"}},
			{"endDate": {"x"}},
			{"includeInactive": {"maybe"}},
		} {
			_, err := handler.ToServiceRequest(10, actor, q)
			assert.Error(t, err)
		}
	})
}

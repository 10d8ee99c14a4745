package get_business_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
)

const (
	msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"
	msgInvalidParams     = "معاملات الطلب غير صحيحة"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/bookings
// Query params: status, date, startDate, endDate, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	serviceReq, err := ToServiceRequest(businessID, actor, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetBusinessBookings(r.Context(), serviceReq)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings - Failed: business_id=%d, user_id=%d, error=%v",
			businessID, actor.UserID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("GET /businesses/{id}/bookings - business_id=%d, count=%d", businessID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}

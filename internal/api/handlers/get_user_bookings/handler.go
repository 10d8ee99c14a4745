package get_user_bookings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
	"github.com/booking4u/booking-service/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "معرّف المستخدم غير صالح"
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

// Handle GET /api/v1/users/{userId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	serviceReq := &models.GetCustomerBookingsRequest{
		Actor:      actor,
		CustomerID: userID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		serviceReq.Status = &status
	}

	result, err := h.service.GetCustomerBookings(r.Context(), serviceReq)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - user_id=%d, count=%d", userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}

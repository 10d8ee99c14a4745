package get_booking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
)

const (
	msgInvalidBookingID = "معرّف الحجز غير صالح"
	msgNotFound         = "الحجز غير موجود"
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

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, actor)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Failed: booking_id=%d, user_id=%d, error=%v", bookingID, actor.UserID, err)
		message := ""
		if handlers.StatusFromError(err) == http.StatusNotFound {
			message = msgNotFound
		}
		handlers.RespondDomainError(w, err, message)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}

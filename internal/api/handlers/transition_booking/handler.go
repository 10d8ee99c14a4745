package transition_booking

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
	"github.com/booking4u/booking-service/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "معرّف الحجز غير صالح"
	msgMissingStatus    = "الحالة الجديدة مطلوبة"
)

type Handler struct {
	useCase TransitionBookingUseCase
	logger  Logger
}

func NewHandler(useCase TransitionBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	var req TransitionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidBody)
		return
	}
	if req.Status == "" {
		handlers.RespondBadRequest(w, msgMissingStatus)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, actor))
	if err != nil {
		if handlers.StatusFromError(err) >= http.StatusInternalServerError {
			h.logger.Error("PATCH /bookings/{id}/status - Failed: booking_id=%d, error=%v", bookingID, err)
		} else {
			h.logger.Warn("PATCH /bookings/{id}/status - Rejected: booking_id=%d, user_id=%d, target=%s, reason=%v",
				bookingID, actor.UserID, req.Status, err)
		}
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - booking_id=%d moved to %s by user_id=%d",
		bookingID, booking.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(booking))
}

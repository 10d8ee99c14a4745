package create_booking

import (
	"errors"
	"net/http"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
	"github.com/booking4u/booking-service/internal/domain"
	createBooking "github.com/booking4u/booking-service/internal/usecase/create_booking"
)

const (
	msgInvalidDate        = "صيغة تاريخ الحجز غير صحيحة، المطلوب YYYY-MM-DD"
	msgInvalidTime        = "صيغة وقت البدء غير صحيحة، المطلوب HH:MM"
	msgOnlyCustomers      = "الحجز متاح للعملاء فقط"
	msgBusinessNotFound   = "النشاط التجاري غير موجود"
	msgServiceNotFound    = "الخدمة غير موجودة"
	msgBusinessClosed     = "النشاط التجاري مغلق في هذا اليوم"
	msgInvalidTimeSlot    = "الوقت المختار لا يطابق أي موعد متاح"
	msgInvalidBookingDate = "لا يمكن الحجز في تاريخ سابق"
	msgDateTooFar         = "تاريخ الحجز بعيد جداً"
	msgTooLateToBook      = "فات وقت الحجز لهذا الموعد"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user")
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}
	if actor.Role != domain.RoleCustomer {
		h.logger.Warn("POST /bookings - Role %s cannot book: user_id=%d", actor.Role, actor.UserID)
		handlers.RespondForbidden(w, msgOnlyCustomers)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.UserID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, createBooking.ErrBusinessNotFound):
			message = msgBusinessNotFound
		case errors.Is(err, createBooking.ErrServiceNotFound):
			message = msgServiceNotFound
		case errors.Is(err, createBooking.ErrBusinessClosed):
			message = msgBusinessClosed
		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			message = msgInvalidTimeSlot
		case errors.Is(err, createBooking.ErrInvalidDate):
			message = msgInvalidBookingDate
		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			message = msgDateTooFar
		case errors.Is(err, createBooking.ErrTooLateToBook):
			message = msgTooLateToBook
		}

		if handlers.StatusFromError(err) >= http.StatusInternalServerError {
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, business_id=%d, error=%v",
				actor.UserID, req.BusinessID, err)
		} else {
			h.logger.Warn("POST /bookings - Rejected: customer_id=%d, business_id=%d, reason=%v",
				actor.UserID, req.BusinessID, err)
		}
		handlers.RespondDomainError(w, err, message)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, business_id=%d",
		result.ID, actor.UserID, req.BusinessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

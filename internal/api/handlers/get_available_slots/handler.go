package get_available_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
)

const (
	msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"
	msgInvalidServiceID  = "معرّف الخدمة غير صالح"
	msgMissingServiceID  = "معرّف الخدمة مطلوب"
	msgMissingDate       = "التاريخ مطلوب"
	msgInvalidDate       = "صيغة التاريخ غير صحيحة، المطلوب YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Failed: business_id=%d, service_id=%d, error=%v",
			businessID, serviceID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	h.logger.Info("GET /businesses/{id}/available-slots - business_id=%d, service_id=%d, slots_count=%d",
		businessID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

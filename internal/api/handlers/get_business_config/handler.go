package get_business_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
)

const (
	msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"
	msgInvalidServiceID  = "معرّف الخدمة غير صالح"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/config
// Query params: serviceId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var serviceID *int64
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	config, err := h.service.GetEffective(r.Context(), businessID, serviceID)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/config - Failed: business_id=%d, error=%v", businessID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, config)
}

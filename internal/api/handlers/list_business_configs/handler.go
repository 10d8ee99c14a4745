package list_business_configs

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
)

const msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"

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

// Handle GET /api/v1/businesses/{businessId}/configs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, handlers.MsgUnauthorized)
		return
	}

	result, err := h.service.GetAllByBusiness(r.Context(), businessID, actor)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/configs - Failed: business_id=%d, user_id=%d, error=%v",
			businessID, actor.UserID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result.Configs)
}

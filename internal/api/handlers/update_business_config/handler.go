package update_business_config

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
	"github.com/booking4u/booking-service/internal/service/config/models"
)

const (
	msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"
	msgInvalidData       = "إعدادات المواعيد غير صالحة"
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

// Handle PUT /api/v1/businesses/{businessId}/config
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

	var req models.UpsertConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.MsgInvalidBody)
		return
	}
	req.Actor = actor
	req.BusinessID = businessID

	config, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Failed: business_id=%d, user_id=%d, error=%v",
			businessID, actor.UserID, err)
		message := ""
		if handlers.StatusFromError(err) == http.StatusBadRequest {
			message = msgInvalidData
		}
		handlers.RespondDomainError(w, err, message)
		return
	}

	h.logger.Info("PUT /businesses/{id}/config - business_id=%d, config_id=%d", businessID, config.ID)
	handlers.RespondJSON(w, http.StatusOK, config)
}

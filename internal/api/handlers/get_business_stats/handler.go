package get_business_stats

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/api/middleware"
)

const msgInvalidBusinessID = "معرّف النشاط التجاري غير صالح"

type Handler struct {
	service StatsService
	logger  Logger
}

func NewHandler(service StatsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/stats
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

	stats, err := h.service.GetBusinessStats(r.Context(), businessID, actor)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/stats - Failed: business_id=%d, user_id=%d, error=%v",
			businessID, actor.UserID, err)
		handlers.RespondDomainError(w, err, "")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

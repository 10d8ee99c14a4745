package health

import (
	"context"
	"net/http"
	"time"

	"github.com/booking4u/booking-service/internal/api/handlers"
)

// Pinger проверка доступности зависимости
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Error(format string, v ...interface{})
}

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type Handler struct {
	db      Pinger
	timeout time.Duration
	logger  Logger
}

func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{
		db:      db,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("GET /health - database ping failed: %v", err)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, Response{Status: "degraded", Database: "down"})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{Status: "ok", Database: "up"})
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HTTPRecorder принимает метрики HTTP запросов
type HTTPRecorder interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics пишет метрики и лог по каждому запросу.
// Маршрут берется из шаблона mux, чтобы не раздувать кардинальность меток.
func Metrics(recorder HTTPRecorder, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unknown"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			duration := time.Since(start)
			recorder.ObserveHTTP(r.Method, route, rec.status, duration)

			switch {
			case rec.status >= http.StatusInternalServerError:
				logger.Error("%s %s -> %d (%s) request_id=%s", r.Method, route, rec.status, duration, GetRequestID(r.Context()))
			case rec.status >= http.StatusBadRequest:
				logger.Warn("%s %s -> %d (%s) request_id=%s", r.Method, route, rec.status, duration, GetRequestID(r.Context()))
			default:
				logger.Info("%s %s -> %d (%s) request_id=%s", r.Method, route, rec.status, duration, GetRequestID(r.Context()))
			}
		})
	}
}

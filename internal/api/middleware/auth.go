package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/booking4u/booking-service/internal/api/handlers"
	"github.com/booking4u/booking-service/internal/domain"
)

const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	msgInvalidUserID   = "معرّف المستخدم غير صالح"
	msgInvalidUserRole = "دور المستخدم غير صالح"
)

type ctxKey int

const (
	ctxKeyActor ctxKey = iota
	ctxKeyRequestID
)

// Auth читает пользователя из заголовков шлюза.
// Запрос без X-User-ID проходит дальше анонимным, роль по умолчанию customer.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(UserIDHeader)
		if rawID == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondBadRequest(w, msgInvalidUserID)
			return
		}

		role := domain.RoleCustomer
		if rawRole := r.Header.Get(UserRoleHeader); rawRole != "" {
			role = domain.Role(rawRole)
			if !role.IsValid() {
				handlers.RespondBadRequest(w, msgInvalidUserRole)
				return
			}
		}

		ctx := WithActor(r.Context(), domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// GetActor возвращает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ctxKeyActor).(domain.Actor)
	return actor, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}

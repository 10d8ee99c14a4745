package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/booking4u/booking-service/internal/domain"
)

const maxBodyBytes = 1 << 20

// Сообщения по умолчанию для классов ошибок
const (
	MsgValidation        = "البيانات المرسلة غير صالحة"
	MsgNotFound          = "العنصر المطلوب غير موجود"
	MsgOutOfHours        = "الموعد خارج ساعات العمل"
	MsgSlotConflict      = "هذا الموعد محجوز بالفعل"
	MsgInvalidTransition = "لا يمكن تغيير حالة الحجز بهذا الشكل"
	MsgForbidden         = "ليس لديك صلاحية لتنفيذ هذا الإجراء"
	MsgUnauthorized      = "يجب تسجيل الدخول أولاً"
	MsgStorage           = "الخدمة غير متاحة مؤقتاً، حاول مرة أخرى"
	MsgInternal          = "حدث خطأ داخلي في الخادم"
	MsgInvalidBody       = "صيغة الطلب غير صحيحة"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// ID бронирования, с которым пересекается слот
	ConflictingBookingID *int64 `json:"conflictingBookingId,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с сообщением для пользователя
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, MsgInternal)
}

// StatusFromError сопоставляет доменную ошибку со статус-кодом
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfHours):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSlotConflict), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError пишет ответ для доменной ошибки.
// Если message пустой, используется сообщение по умолчанию для класса ошибки.
func RespondDomainError(w http.ResponseWriter, err error, message string) {
	if message == "" {
		message = defaultMessage(err)
	}

	resp := ErrorResponse{Error: message, Code: domain.Outcome(err)}

	var conflict *domain.SlotConflictError
	if errors.As(err, &conflict) && conflict.ConflictingBookingID != 0 {
		id := conflict.ConflictingBookingID
		resp.ConflictingBookingID = &id
	}

	RespondJSON(w, StatusFromError(err), resp)
}

func defaultMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return MsgValidation
	case errors.Is(err, domain.ErrNotFound):
		return MsgNotFound
	case errors.Is(err, domain.ErrOutOfHours):
		return MsgOutOfHours
	case errors.Is(err, domain.ErrSlotConflict):
		return MsgSlotConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return MsgInvalidTransition
	case errors.Is(err, domain.ErrForbidden):
		return MsgForbidden
	case errors.Is(err, domain.ErrStorage):
		return MsgStorage
	default:
		return MsgInternal
	}
}

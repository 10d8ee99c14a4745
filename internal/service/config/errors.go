package config

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = fmt.Errorf("config: business %w", domain.ErrNotFound)

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = fmt.Errorf("config: service %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("config: access denied: %w", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("config: %w", domain.ErrValidation)

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = fmt.Errorf("config: %w", domain.ErrStorage)
)

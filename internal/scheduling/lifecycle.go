package scheduling

import (
	"fmt"

	"github.com/booking4u/booking-service/internal/domain"
)

// Policy настраиваемые правила жизненного цикла
type Policy struct {
	// CustomerCanCancelConfirmed разрешает клиенту отменять подтвержденное бронирование
	CustomerCanCancelConfirmed bool
}

// transitions допустимые переходы и роли, которым они разрешены.
// Роль business здесь означает владельца бизнеса бронирования,
// принадлежность проверяется вызывающим кодом.
var transitions = map[domain.BookingStatus]map[domain.BookingStatus][]domain.Role{
	domain.StatusPending: {
		domain.StatusConfirmed: {domain.RoleBusiness, domain.RoleAdmin},
		domain.StatusCancelled: {domain.RoleCustomer, domain.RoleBusiness, domain.RoleAdmin},
	},
	domain.StatusConfirmed: {
		domain.StatusCancelled: {domain.RoleBusiness, domain.RoleAdmin},
		domain.StatusCompleted: {domain.RoleBusiness, domain.RoleAdmin},
	},
	domain.StatusCompleted: {},
	domain.StatusCancelled: {},
}

// StateMachine проверяет переходы статусов бронирования
type StateMachine struct {
	policy Policy
}

// NewStateMachine создает машину состояний с заданной политикой
func NewStateMachine(policy Policy) *StateMachine {
	return &StateMachine{policy: policy}
}

// Check проверяет, может ли роль перевести бронирование из from в to.
// Переход в тот же статус считается недопустимым.
func (m *StateMachine) Check(from, to domain.BookingStatus, role domain.Role) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, to)
	}
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, role)
	}

	allowed, ok := transitions[from][to]
	if !ok {
		return &domain.TransitionError{From: from, To: to}
	}

	if !m.roleAllowed(from, to, role, allowed) {
		return fmt.Errorf("%w: role %s cannot change status %s -> %s", domain.ErrForbidden, role, from, to)
	}

	return nil
}

// AllowedTargets возвращает статусы, в которые роль может перевести бронирование
func (m *StateMachine) AllowedTargets(from domain.BookingStatus, role domain.Role) []domain.BookingStatus {
	targets := make([]domain.BookingStatus, 0, 2)
	for _, to := range domain.AllStatuses {
		allowed, ok := transitions[from][to]
		if ok && m.roleAllowed(from, to, role, allowed) {
			targets = append(targets, to)
		}
	}
	return targets
}

func (m *StateMachine) roleAllowed(from, to domain.BookingStatus, role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}

	return m.policy.CustomerCanCancelConfirmed &&
		role == domain.RoleCustomer &&
		from == domain.StatusConfirmed &&
		to == domain.StatusCancelled
}

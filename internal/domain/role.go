package domain

// Role роль пользователя платформы
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
	RoleAdmin    Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleBusiness || r == RoleAdmin
}

// Actor пользователь, выполняющий операцию.
// Идентификатор и роль приходят от шлюза, сервис их не аутентифицирует.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for platform administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

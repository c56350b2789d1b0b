package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero" // movimientos de stock
	RoleVendedor  = "vendedor"  // pedidos y cobros
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// ValidRole indica si el rol es uno de los definidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleBodeguero || role == RoleVendedor
}

// User usuario del sistema. Es el actor que se registra como CreatedBy.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en claro
	Name         string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

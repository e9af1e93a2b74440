package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin       = "admin"
	RoleCodificador = "codificador" // completa la codificación contable
	RoleRevisor     = "revisor"     // revisor departamental
	RoleGerente     = "gerente"     // revisa cambios de precio (etapa 4)
)

// User representa un usuario del sistema. Username es la identidad que se
// registra como revisor/codificador en las facturas y cambios de precio.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, codificador, revisor, gerente
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

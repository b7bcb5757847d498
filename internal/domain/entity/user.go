package entity

import "time"

// Roles válidos para User, de mayor a menor privilegio.
const (
	RoleSuperAdmin  = "SUPER_ADMIN"
	RoleAdmin       = "ADMIN"
	RoleCoordinador = "COORDINADOR"
	RoleAsesor      = "ASESOR"
)

// Estados de cuenta.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
)

// User usuario del sistema. Los asesores son dueños de clientes.
type User struct {
	ID           int64
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Birthdate    *time.Time
	Phone        string
	Address      string
	City         string
	Department   string
	Document     string
	Avatar       string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary datos mínimos del usuario embebidos en clientes y comentarios.
type UserSummary struct {
	ID     int64
	Email  string
	Name   string
	Avatar string
}

// Summary reduce el usuario a sus datos públicos.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar}
}

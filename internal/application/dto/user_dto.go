package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=200"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"omitempty,max=200"`
	Birthdate  string `json:"birthdate"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Address    string `json:"address" validate:"omitempty,max=300"`
	City       string `json:"city" validate:"omitempty,max=120"`
	Department string `json:"department" validate:"omitempty,max=120"`
	Document   string `json:"document" validate:"omitempty,max=50"`
	Role       string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN COORDINADOR ASESOR"`
	Status     string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateUserRequest cambios parciales de un usuario.
type UpdateUserRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,max=200"`
	Password   *string `json:"password" validate:"omitempty,min=6"`
	Name       *string `json:"name" validate:"omitempty,max=200"`
	Birthdate  *string `json:"birthdate"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Address    *string `json:"address" validate:"omitempty,max=300"`
	City       *string `json:"city" validate:"omitempty,max=120"`
	Department *string `json:"department" validate:"omitempty,max=120"`
	Document   *string `json:"document" validate:"omitempty,max=50"`
	Role       *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN COORDINADOR ASESOR"`
	Status     *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// UpdateProfileRequest cambios sobre el propio perfil. Rol, estado y contraseña quedan fuera.
type UpdateProfileRequest struct {
	Email      *string `json:"email" validate:"omitempty,email,max=200"`
	Name       *string `json:"name" validate:"omitempty,max=200"`
	Birthdate  *string `json:"birthdate"`
	Phone      *string `json:"phone" validate:"omitempty,max=50"`
	Address    *string `json:"address" validate:"omitempty,max=300"`
	City       *string `json:"city" validate:"omitempty,max=120"`
	Department *string `json:"department" validate:"omitempty,max=120"`
	Document   *string `json:"document" validate:"omitempty,max=50"`
}

// UserChanges los mismos cambios expresados como actualización de usuario.
func (r UpdateProfileRequest) UserChanges() UpdateUserRequest {
	return UpdateUserRequest{
		Email:      r.Email,
		Name:       r.Name,
		Birthdate:  r.Birthdate,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		Department: r.Department,
		Document:   r.Document,
	}
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Birthdate  *string   `json:"birthdate"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Department string    `json:"department"`
	Document   string    `json:"document"`
	Avatar     string    `json:"avatar"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChangePasswordRequest cambio de contraseña propia.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
	"github.com/jhoicas/crm-motorenting/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: login, perfil propio y registro.
type AuthUseCase struct {
	userRepo repository.UserRepository
	users    *usecase.UserUseCase
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. El registro reutiliza las reglas de alta de usuarios.
func NewAuthUseCase(userRepo repository.UserRepository, users *usecase.UserUseCase, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, users: users, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "Credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.NewError(domain.ErrUnauthorized, "Credenciales inválidas")
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.Forbidden("Usuario inactivo")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{UserID: user.ID, Email: user.Email, Role: user.Role},
		uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.ToUserResponse(user),
	}, nil
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, pr access.Principal) (*dto.UserResponse, error) {
	return uc.users.GetByID(ctx, pr, pr.ID)
}

// UpdateMe cambios sobre el propio perfil; rol, estado y contraseña no se tocan por aquí.
func (uc *AuthUseCase) UpdateMe(ctx context.Context, pr access.Principal, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	return uc.users.Update(ctx, pr, pr.ID, in.UserChanges())
}

// ChangePassword exige la contraseña actual antes de reemplazarla.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, pr access.Principal, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(ctx, pr.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFound("Usuario no encontrado")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.NewError(domain.ErrUnauthorized, "La contraseña actual es incorrecta")
		}
		return err
	}
	if len(in.NewPassword) < 6 {
		return domain.InvalidInput("La nueva contraseña debe tener al menos 6 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(ctx, user)
}

// Register alta de usuario desde una sesión autenticada (mismas reglas que la creación de usuarios).
func (uc *AuthUseCase) Register(ctx context.Context, pr access.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	return uc.users.Create(ctx, pr, in)
}

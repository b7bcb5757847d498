package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
	"github.com/jhoicas/crm-motorenting/pkg/logger"
)

// AvatarStore almacenamiento de imágenes de perfil. Devuelve la URL pública del objeto.
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// MaxAvatarBytes tamaño máximo aceptado para un avatar.
const MaxAvatarBytes = 5 << 20

var avatarExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo    repository.UserRepository
	policy  *access.Policy
	avatars AvatarStore
	log     *logger.Logger
	now     func() time.Time
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
// avatars puede ser nil: la subida de avatar queda deshabilitada.
func NewUserUseCase(repo repository.UserRepository, policy *access.Policy, avatars AvatarStore, log *logger.Logger) *UserUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{repo: repo, policy: policy, avatars: avatars, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *UserUseCase) WithClock(now func() time.Time) *UserUseCase {
	uc.now = now
	return uc
}

// List todos los usuarios.
func (uc *UserUseCase) List(ctx context.Context, pr access.Principal) ([]dto.UserResponse, error) {
	if err := uc.policy.Require(access.OpListUsers, pr, "No tienes permisos"); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *ToUserResponse(u))
	}
	return out, nil
}

// GetByID un asesor solo se ve a sí mismo; el perfil de un SUPER_ADMIN solo lo ve otro SUPER_ADMIN.
func (uc *UserUseCase) GetByID(ctx context.Context, pr access.Principal, id int64) (*dto.UserResponse, error) {
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == entity.RoleSuperAdmin && pr.Role != access.RoleSuperAdmin {
		return nil, domain.Forbidden("No tienes permiso para ver este usuario")
	}
	if pr.Role == access.RoleAsesor && pr.ID != id {
		return nil, domain.Forbidden("No tienes permiso para ver este usuario")
	}
	return ToUserResponse(u), nil
}

// Create alta de usuario con contraseña hasheada; rol ASESOR y estado ACTIVE por defecto.
func (uc *UserUseCase) Create(ctx context.Context, pr access.Principal, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := uc.policy.Require(access.OpManageUsers, pr, "No tienes permisos"); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict(fmt.Sprintf("El email %s ya está registrado", email))
	}
	birthdate, err := parseDate(in.Birthdate)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	u := &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Birthdate:    birthdate,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		City:         strings.TrimSpace(in.City),
		Department:   strings.TrimSpace(in.Department),
		Document:     strings.TrimSpace(in.Document),
		Role:         in.Role,
		Status:       in.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.Name == "" {
		u.Name = email
	}
	if u.Role == "" {
		u.Role = entity.RoleAsesor
	}
	if u.Status == "" {
		u.Status = entity.UserStatusActive
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", u.ID).Str("role", u.Role).Int64("by", pr.ID).Msg("usuario creado")
	return ToUserResponse(u), nil
}

// Update cambios parciales. Editar a otro usuario exige OpManageUsers; nadie cambia su propio
// rol o estado, ni su contraseña sin pasar por el cambio de contraseña.
func (uc *UserUseCase) Update(ctx context.Context, pr access.Principal, id int64, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	self := pr.ID == id
	if !self {
		if err := uc.policy.Require(access.OpManageUsers, pr, "No tienes permiso para modificar este usuario"); err != nil {
			return nil, err
		}
	}
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if self {
		if (in.Role != nil && *in.Role != u.Role) || (in.Status != nil && *in.Status != u.Status) {
			return nil, domain.Forbidden("No puedes cambiar tu propio rol o estado")
		}
		if in.Password != nil {
			return nil, domain.Forbidden("Usa el cambio de contraseña para modificar tu contraseña")
		}
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" && email != u.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != id {
				return nil, domain.Conflict(fmt.Sprintf("El email %s ya está registrado", email))
			}
			u.Email = email
		}
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if in.Birthdate != nil {
		d, err := parseDate(*in.Birthdate)
		if err != nil {
			return nil, err
		}
		u.Birthdate = d
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&u.Name, in.Name)
	set(&u.Phone, in.Phone)
	set(&u.Address, in.Address)
	set(&u.City, in.City)
	set(&u.Department, in.Department)
	set(&u.Document, in.Document)
	set(&u.Role, in.Role)
	set(&u.Status, in.Status)
	u.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Delete elimina un usuario; sus clientes quedan sin asesor.
func (uc *UserUseCase) Delete(ctx context.Context, pr access.Principal, id int64) error {
	if err := uc.policy.Require(access.OpManageUsers, pr, "No tienes permisos"); err != nil {
		return err
	}
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().Int64("user_id", id).Int64("by", pr.ID).Msg("usuario eliminado")
	return nil
}

// ToggleRole alterna entre SUPER_ADMIN y ASESOR.
func (uc *UserUseCase) ToggleRole(ctx context.Context, pr access.Principal, id int64) (*dto.UserResponse, error) {
	if err := uc.policy.Require(access.OpManageUsers, pr, "No tienes permisos"); err != nil {
		return nil, err
	}
	u, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == entity.RoleSuperAdmin {
		u.Role = entity.RoleAsesor
	} else {
		u.Role = entity.RoleSuperAdmin
	}
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", id).Str("role", u.Role).Int64("by", pr.ID).Msg("rol alternado")
	return ToUserResponse(u), nil
}

// UploadAvatar sube la imagen del usuario autenticado y guarda su URL pública.
func (uc *UserUseCase) UploadAvatar(ctx context.Context, pr access.Principal, filename string, data []byte) (*dto.UserResponse, error) {
	if uc.avatars == nil {
		return nil, domain.InvalidInput("El almacenamiento de avatares no está configurado")
	}
	if len(data) == 0 {
		return nil, domain.InvalidInput("El archivo está vacío")
	}
	if len(data) > MaxAvatarBytes {
		return nil, domain.InvalidInput("La imagen supera el tamaño máximo de 5 MB")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := avatarExtensions[ext]
	if !ok {
		return nil, domain.InvalidInput("Formato de imagen no soportado")
	}
	u, err := uc.find(ctx, pr.ID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/user_%d_%s%s", u.ID, uuid.NewString(), ext)
	url, err := uc.avatars.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("subir avatar: %w", err)
	}
	u.Avatar = url
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (uc *UserUseCase) find(ctx context.Context, id int64) (*entity.User, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound(fmt.Sprintf("Usuario con id %d no fue encontrado", id))
	}
	return u, nil
}

// parseDate "" = sin fecha. Acepta YYYY-MM-DD o un timestamp RFC3339.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > len(dto.DateLayout) {
		s = s[:len(dto.DateLayout)]
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, domain.InvalidInput("Fecha inválida, se espera YYYY-MM-DD")
	}
	return &t, nil
}

// ToUserResponse salida pública del usuario (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		Department: u.Department,
		Document:   u.Document,
		Avatar:     u.Avatar,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.Birthdate != nil {
		s := u.Birthdate.Format(dto.DateLayout)
		out.Birthdate = &s
	}
	return out
}

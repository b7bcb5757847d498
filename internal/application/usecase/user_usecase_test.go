package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/mocks"
)

var (
	superAdmin = access.Principal{ID: 1, Role: access.RoleSuperAdmin}
	admin      = access.Principal{ID: 2, Role: access.RoleAdmin}
	coord      = access.Principal{ID: 3, Role: access.RoleCoordinador}
	asesor     = access.Principal{ID: 5, Role: access.RoleAsesor}
)

func ptr[T any](v T) *T { return &v }

// userStore usuarios en memoria detrás de MockUserRepository.
type userStore struct {
	users  map[int64]*entity.User
	nextID int64
}

func newUserStore() *userStore {
	s := &userStore{users: map[int64]*entity.User{}, nextID: 10}
	hash, _ := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	for _, u := range []entity.User{
		{ID: 1, Email: "root@crm.co", Name: "Root", Role: entity.RoleSuperAdmin},
		{ID: 2, Email: "admin@crm.co", Name: "Admin", Role: entity.RoleAdmin},
		{ID: 3, Email: "coord@crm.co", Name: "Coord", Role: entity.RoleCoordinador},
		{ID: 5, Email: "asesor@crm.co", Name: "Asesor", Role: entity.RoleAsesor},
		{ID: 6, Email: "otro@crm.co", Name: "Otro", Role: entity.RoleAsesor},
	} {
		cp := u
		cp.PasswordHash = string(hash)
		cp.Status = entity.UserStatusActive
		s.users[u.ID] = &cp
	}
	return s
}

func (s *userStore) repo() *mocks.MockUserRepository {
	return &mocks.MockUserRepository{
		CreateFunc: func(_ context.Context, u *entity.User) error {
			s.nextID++
			u.ID = s.nextID
			cp := *u
			s.users[u.ID] = &cp
			return nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*entity.User, error) {
			u, ok := s.users[id]
			if !ok {
				return nil, nil
			}
			cp := *u
			return &cp, nil
		},
		GetByEmailFunc: func(_ context.Context, email string) (*entity.User, error) {
			for _, u := range s.users {
				if strings.EqualFold(u.Email, email) {
					cp := *u
					return &cp, nil
				}
			}
			return nil, nil
		},
		UpdateFunc: func(_ context.Context, u *entity.User) error {
			cp := *u
			s.users[u.ID] = &cp
			return nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			delete(s.users, id)
			return nil
		},
		ListFunc: func(context.Context) ([]*entity.User, error) {
			out := make([]*entity.User, 0, len(s.users))
			for _, u := range s.users {
				out = append(out, u)
			}
			return out, nil
		},
	}
}

// fakeAvatars registra la última subida.
type fakeAvatars struct {
	key, contentType string
	err              error
}

func (f *fakeAvatars) Upload(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	f.key, f.contentType = key, contentType
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.crm.co/" + key, nil
}

func newUserUC(s *userStore, avatars usecase.AvatarStore) *usecase.UserUseCase {
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return usecase.NewUserUseCase(s.repo(), access.NewPolicy(access.Options{}), avatars, nil).
		WithClock(func() time.Time { return fixed })
}

func TestUserUseCase_List(t *testing.T) {
	uc := newUserUC(newUserStore(), nil)

	list, err := uc.List(context.Background(), coord)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	_, err = uc.List(context.Background(), asesor)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUserUseCase_GetByID(t *testing.T) {
	uc := newUserUC(newUserStore(), nil)
	ctx := context.Background()

	u, err := uc.GetByID(ctx, asesor, 5)
	require.NoError(t, err)
	assert.Equal(t, "asesor@crm.co", u.Email)

	_, err = uc.GetByID(ctx, asesor, 6)
	assert.True(t, errors.Is(err, domain.ErrForbidden), "un asesor solo se ve a sí mismo")

	_, err = uc.GetByID(ctx, admin, 1)
	assert.True(t, errors.Is(err, domain.ErrForbidden), "perfil de SUPER_ADMIN oculto")

	_, err = uc.GetByID(ctx, superAdmin, 1)
	assert.NoError(t, err)

	_, err = uc.GetByID(ctx, admin, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserUseCase_Create(t *testing.T) {
	s := newUserStore()
	uc := newUserUC(s, nil)
	ctx := context.Background()

	out, err := uc.Create(ctx, admin, dto.CreateUserRequest{
		Email: " Nuevo@CRM.co ", Password: "abcdef", Name: "Nuevo", Birthdate: "1990-04-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@crm.co", out.Email)
	assert.Equal(t, entity.RoleAsesor, out.Role)
	assert.Equal(t, entity.UserStatusActive, out.Status)
	require.NotNil(t, out.Birthdate)
	assert.Equal(t, "1990-04-02", *out.Birthdate)

	stored := s.users[out.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("abcdef")))

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Email: "admin@crm.co", Password: "abcdef"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	_, err = uc.Create(ctx, coord, dto.CreateUserRequest{Email: "x@crm.co", Password: "abcdef"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Create(ctx, admin, dto.CreateUserRequest{Email: "y@crm.co", Password: "abcdef", Birthdate: "02/04/1990"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestUserUseCase_Update(t *testing.T) {
	s := newUserStore()
	uc := newUserUC(s, nil)
	ctx := context.Background()

	out, err := uc.Update(ctx, asesor, 5, dto.UpdateUserRequest{Name: ptr(" Asesora "), City: ptr("Cali")})
	require.NoError(t, err)
	assert.Equal(t, "Asesora", out.Name)
	assert.Equal(t, "Cali", out.City)

	_, err = uc.Update(ctx, asesor, 6, dto.UpdateUserRequest{Name: ptr("x")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = uc.Update(ctx, asesor, 5, dto.UpdateUserRequest{Role: ptr(entity.RoleAdmin)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = uc.Update(ctx, asesor, 5, dto.UpdateUserRequest{Status: ptr(entity.UserStatusInactive)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, entity.RoleAsesor, s.users[5].Role)

	_, err = uc.Update(ctx, admin, 6, dto.UpdateUserRequest{Email: ptr("asesor@crm.co")})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	out, err = uc.Update(ctx, admin, 6, dto.UpdateUserRequest{Status: ptr(entity.UserStatusInactive), Password: ptr("nueva123")})
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusInactive, out.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(s.users[6].PasswordHash), []byte("nueva123")))
}

func TestUserUseCase_Update_SoloAdministradoresEditanOtros(t *testing.T) {
	s := newUserStore()
	uc := newUserUC(s, nil)
	ctx := context.Background()

	// el coordinador no se promueve ni toca a otros usuarios
	_, err := uc.Update(ctx, coord, 3, dto.UpdateUserRequest{Role: ptr(entity.RoleSuperAdmin)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = uc.Update(ctx, coord, 1, dto.UpdateUserRequest{Role: ptr(entity.RoleAsesor), Status: ptr(entity.UserStatusInactive)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = uc.Update(ctx, coord, 5, dto.UpdateUserRequest{Name: ptr("x")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, entity.RoleCoordinador, s.users[3].Role)
	assert.Equal(t, entity.RoleSuperAdmin, s.users[1].Role)
	assert.Equal(t, entity.UserStatusActive, s.users[1].Status)
	assert.Equal(t, "Asesor", s.users[5].Name)

	// nadie cambia su propio rol o estado, ni su contraseña por esta vía
	_, err = uc.Update(ctx, admin, 2, dto.UpdateUserRequest{Role: ptr(entity.RoleSuperAdmin)})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	_, err = uc.Update(ctx, coord, 3, dto.UpdateUserRequest{Password: ptr("nueva123")})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	// el coordinador sí edita sus propios datos; repetir el rol actual no es un cambio
	out, err := uc.Update(ctx, coord, 3, dto.UpdateUserRequest{Phone: ptr("3001112233"), Role: ptr(entity.RoleCoordinador)})
	require.NoError(t, err)
	assert.Equal(t, "3001112233", out.Phone)
}

func TestUserUseCase_DeleteYToggleRole(t *testing.T) {
	s := newUserStore()
	uc := newUserUC(s, nil)
	ctx := context.Background()

	assert.True(t, errors.Is(uc.Delete(ctx, coord, 6), domain.ErrForbidden))
	assert.True(t, errors.Is(uc.Delete(ctx, admin, 404), domain.ErrNotFound))
	require.NoError(t, uc.Delete(ctx, admin, 6))
	assert.NotContains(t, s.users, int64(6))

	out, err := uc.ToggleRole(ctx, admin, 5)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, out.Role)
	out, err = uc.ToggleRole(ctx, admin, 5)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAsesor, out.Role)

	_, err = uc.ToggleRole(ctx, asesor, 5)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUserUseCase_UploadAvatar(t *testing.T) {
	s := newUserStore()
	avatars := &fakeAvatars{}
	uc := newUserUC(s, avatars)
	ctx := context.Background()

	out, err := uc.UploadAvatar(ctx, asesor, "Foto.PNG", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Regexp(t, `^avatars/user_5_[0-9a-f-]{36}\.png$`, avatars.key)
	assert.Equal(t, "image/png", avatars.contentType)
	assert.Equal(t, "https://cdn.crm.co/"+avatars.key, out.Avatar)
	assert.Equal(t, out.Avatar, s.users[5].Avatar)

	_, err = uc.UploadAvatar(ctx, asesor, "cv.pdf", []byte("x"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.UploadAvatar(ctx, asesor, "vacia.jpg", nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	avatars.err = errors.New("s3 caído")
	_, err = uc.UploadAvatar(ctx, asesor, "foto.jpg", []byte("x"))
	assert.Error(t, err)

	_, err = newUserUC(s, nil).UploadAvatar(ctx, asesor, "foto.jpg", []byte("x"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

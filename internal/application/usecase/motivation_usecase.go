package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// MotivationUseCase mensajes motivacionales del equipo comercial.
type MotivationUseCase struct {
	repo   repository.MotivationRepository
	policy *access.Policy
	now    func() time.Time
}

// NewMotivationUseCase construye el caso de uso.
func NewMotivationUseCase(repo repository.MotivationRepository, policy *access.Policy) *MotivationUseCase {
	return &MotivationUseCase{repo: repo, policy: policy, now: time.Now}
}

// Latest el mensaje más reciente.
func (uc *MotivationUseCase) Latest(ctx context.Context) (*dto.MotivationResponse, error) {
	m, err := uc.repo.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("No hay mensajes motivacionales")
	}
	return toMotivationResponse(m), nil
}

// Create publica un mensaje nuevo.
func (uc *MotivationUseCase) Create(ctx context.Context, pr access.Principal, in dto.MotivationRequest) (*dto.MotivationResponse, error) {
	if err := uc.policy.Require(access.OpManageMotivation, pr, "No tienes permisos"); err != nil {
		return nil, err
	}
	items, err := motivationItems(in)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.MotivationMessage{
		Title:     strings.TrimSpace(in.Title),
		Subtitle:  strings.TrimSpace(in.Subtitle),
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMotivationResponse(m), nil
}

// Update reemplaza título, subtítulo y frases de un mensaje existente.
func (uc *MotivationUseCase) Update(ctx context.Context, pr access.Principal, id int64, in dto.MotivationRequest) (*dto.MotivationResponse, error) {
	if err := uc.policy.Require(access.OpManageMotivation, pr, "No tienes permisos"); err != nil {
		return nil, err
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("Mensaje no encontrado")
	}
	items, err := motivationItems(in)
	if err != nil {
		return nil, err
	}
	m.Title = strings.TrimSpace(in.Title)
	m.Subtitle = strings.TrimSpace(in.Subtitle)
	m.Items = items
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMotivationResponse(m), nil
}

// Delete elimina un mensaje.
func (uc *MotivationUseCase) Delete(ctx context.Context, pr access.Principal, id int64) error {
	if err := uc.policy.Require(access.OpManageMotivation, pr, "No tienes permisos"); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func motivationItems(in dto.MotivationRequest) ([]entity.MotivationItem, error) {
	items := make([]entity.MotivationItem, 0, len(in.Items))
	for _, it := range in.Items {
		if d := strings.TrimSpace(it.Description); d != "" {
			items = append(items, entity.MotivationItem{Description: d})
		}
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.InvalidInput("El título es obligatorio")
	}
	if len(items) == 0 {
		return nil, domain.InvalidInput("El mensaje debe tener al menos una frase")
	}
	return items, nil
}

func toMotivationResponse(m *entity.MotivationMessage) *dto.MotivationResponse {
	out := &dto.MotivationResponse{
		ID:        m.ID,
		Title:     m.Title,
		Subtitle:  m.Subtitle,
		Items:     make([]dto.MotivationItemDTO, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, it := range m.Items {
		out.Items = append(out.Items, dto.MotivationItemDTO{Description: it.Description})
	}
	return out
}

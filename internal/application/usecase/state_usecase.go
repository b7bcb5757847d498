package usecase

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// StateUseCase consulta de los estados del embudo.
type StateUseCase struct {
	repo repository.PipelineStateRepository
}

// NewStateUseCase construye el caso de uso.
func NewStateUseCase(repo repository.PipelineStateRepository) *StateUseCase {
	return &StateUseCase{repo: repo}
}

// List estados ordenados por id.
func (uc *StateUseCase) List(ctx context.Context) ([]dto.StateResponse, error) {
	states, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StateResponse, 0, len(states))
	for _, s := range states {
		out = append(out, dto.StateResponse{ID: s.ID, Name: s.Name})
	}
	return out, nil
}

// GetByID un estado por id.
func (uc *StateUseCase) GetByID(ctx context.Context, id int64) (*dto.StateResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("Estado no encontrado")
	}
	return &dto.StateResponse{ID: s.ID, Name: s.Name}, nil
}

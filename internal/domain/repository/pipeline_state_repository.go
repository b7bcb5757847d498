package repository

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// PipelineStateRepository lectura del catálogo de estados.
type PipelineStateRepository interface {
	List(ctx context.Context) ([]entity.PipelineState, error)
	GetByID(ctx context.Context, id int64) (*entity.PipelineState, error)
}

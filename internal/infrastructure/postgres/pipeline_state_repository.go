package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

var _ repository.PipelineStateRepository = (*PipelineStateRepo)(nil)

// PipelineStateRepo catálogo de estados del embudo (solo lectura).
type PipelineStateRepo struct {
	q Querier
}

func NewPipelineStateRepository(q Querier) *PipelineStateRepo {
	return &PipelineStateRepo{q: q}
}

// List estados ordenados por id.
func (r *PipelineStateRepo) List(ctx context.Context) ([]entity.PipelineState, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM pipeline_states ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	defer rows.Close()
	list := []entity.PipelineState{}
	for rows.Next() {
		var s entity.PipelineState
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PipelineStateRepo) GetByID(ctx context.Context, id int64) (*entity.PipelineState, error) {
	var s entity.PipelineState
	err := r.q.QueryRow(ctx, `SELECT id, name FROM pipeline_states WHERE id = $1`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &s, nil
}

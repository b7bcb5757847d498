package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

var _ repository.MotivationRepository = (*MotivationRepo)(nil)

const motivationColumns = `id, title, subtitle, items, created_at, updated_at`

// MotivationRepo mensajes motivacionales; items se guarda como JSONB.
type MotivationRepo struct {
	q Querier
}

func NewMotivationRepository(q Querier) *MotivationRepo {
	return &MotivationRepo{q: q}
}

// Latest el mensaje creado más recientemente.
func (r *MotivationRepo) Latest(ctx context.Context) (*entity.MotivationMessage, error) {
	return r.getOne(ctx, `SELECT `+motivationColumns+` FROM motivation_messages ORDER BY created_at DESC, id DESC LIMIT 1`)
}

func (r *MotivationRepo) GetByID(ctx context.Context, id int64) (*entity.MotivationMessage, error) {
	return r.getOne(ctx, `SELECT `+motivationColumns+` FROM motivation_messages WHERE id = $1`, id)
}

func (r *MotivationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.MotivationMessage, error) {
	var m entity.MotivationMessage
	err := r.q.QueryRow(ctx, query, args...).Scan(&m.ID, &m.Title, &m.Subtitle, &m.Items, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get motivation: %w", err)
	}
	return &m, nil
}

func (r *MotivationRepo) Create(ctx context.Context, m *entity.MotivationMessage) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO motivation_messages (title, subtitle, items, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.Title, m.Subtitle, m.Items, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert motivation: %w", err)
	}
	return nil
}

func (r *MotivationRepo) Update(ctx context.Context, m *entity.MotivationMessage) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE motivation_messages SET title = $2, subtitle = $3, items = $4, updated_at = $5 WHERE id = $1`,
		m.ID, m.Title, m.Subtitle, m.Items, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update motivation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Mensaje no encontrado")
	}
	return nil
}

func (r *MotivationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM motivation_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete motivation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Mensaje no encontrado")
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// MotivationRepository persistencia de mensajes motivacionales.
type MotivationRepository interface {
	Latest(ctx context.Context) (*entity.MotivationMessage, error)
	GetByID(ctx context.Context, id int64) (*entity.MotivationMessage, error)
	Create(ctx context.Context, msg *entity.MotivationMessage) error
	Update(ctx context.Context, msg *entity.MotivationMessage) error
	Delete(ctx context.Context, id int64) error
}

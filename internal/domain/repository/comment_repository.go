package repository

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// CommentRepository puerto de persistencia para comentarios (solo inserción y lectura).
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByCustomer(ctx context.Context, customerID int64) ([]entity.CommentDetail, error)
}

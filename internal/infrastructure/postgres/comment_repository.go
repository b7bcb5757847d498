package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo comentarios de seguimiento.
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

// Create inserta el comentario y completa su ID.
func (r *CommentRepo) Create(ctx context.Context, c *entity.Comment) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO comments (description, customer_id, created_by_id, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Description, c.CustomerID, nullIfZero(&c.CreatedByID), c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListByCustomer comentarios del cliente, el más reciente primero.
func (r *CommentRepo) ListByCustomer(ctx context.Context, customerID int64) ([]entity.CommentDetail, error) {
	return listComments(ctx, r.q, []int64{customerID})
}

func listComments(ctx context.Context, q Querier, customerIDs []int64) ([]entity.CommentDetail, error) {
	rows, err := q.Query(ctx, `
		SELECT cm.id, cm.customer_id, COALESCE(cm.created_by_id, 0), cm.description, cm.created_at,
			u.id, u.email, u.name, u.avatar
		FROM comments cm
		LEFT JOIN users u ON u.id = cm.created_by_id
		WHERE cm.customer_id = ANY($1)
		ORDER BY cm.created_at DESC, cm.id DESC`, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	list := []entity.CommentDetail{}
	for rows.Next() {
		var cm entity.CommentDetail
		var uID *int64
		var uEmail, uName, uAvatar *string
		if err := rows.Scan(&cm.ID, &cm.CustomerID, &cm.CreatedByID, &cm.Description, &cm.CreatedAt,
			&uID, &uEmail, &uName, &uAvatar); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if uID != nil {
			cm.CreatedBy = &entity.UserSummary{ID: *uID, Email: deref(uEmail), Name: deref(uName), Avatar: deref(uAvatar)}
		}
		list = append(list, cm)
	}
	return list, rows.Err()
}

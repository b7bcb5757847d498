package entity

import "time"

// Comment nota de seguimiento sobre un cliente. Solo se agregan, nunca se editan.
type Comment struct {
	ID          int64
	CustomerID  int64
	CreatedByID int64
	Description string
	CreatedAt   time.Time
}

// CommentDetail comentario con su autor.
type CommentDetail struct {
	Comment
	CreatedBy *UserSummary
}

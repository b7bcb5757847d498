package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Email         *string `json:"email" validate:"omitempty,email,max=200"`
	Phone         string  `json:"phone" validate:"required,max=50"`
	Address       string  `json:"address" validate:"omitempty,max=300"`
	City          string  `json:"city" validate:"omitempty,max=120"`
	Department    string  `json:"department" validate:"omitempty,max=120"`
	Document      string  `json:"document" validate:"omitempty,max=50"`
	Birthdate     string  `json:"birthdate" validate:"omitempty"` // YYYY-MM-DD
	AdvisorID     *int64  `json:"advisorId" validate:"omitempty,gt=0"`
	StateID       *int64  `json:"stateId" validate:"omitempty,gt=0"`
	DeliveryState string  `json:"deliveryState" validate:"omitempty,max=50"`
	PlateNumber   *string `json:"plateNumber" validate:"omitempty,max=20"`
}

// UpdateCustomerRequest cambios parciales; los campos ausentes no se tocan.
type UpdateCustomerRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email         *string `json:"email" validate:"omitempty,max=200,eq=|email"` // "" borra el email
	Phone         *string `json:"phone" validate:"omitempty,min=1,max=50"`
	Address       *string `json:"address" validate:"omitempty,max=300"`
	City          *string `json:"city" validate:"omitempty,max=120"`
	Department    *string `json:"department" validate:"omitempty,max=120"`
	Document      *string `json:"document" validate:"omitempty,max=50"`
	Birthdate     *string `json:"birthdate"`
	AdvisorID     *int64  `json:"advisorId" validate:"omitempty,gt=0"`
	StateID       *int64  `json:"stateId" validate:"omitempty,gt=0"`
	DeliveryState *string `json:"deliveryState" validate:"omitempty,max=50"`
	PlateNumber   *string `json:"plateNumber" validate:"omitempty,max=20"`
	DeliveryDate  *string `json:"deliveryDate"` // ISO 8601
}

// AddCommentRequest comentario de seguimiento.
type AddCommentRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

// AssignMultipleRequest reasignación masiva.
type AssignMultipleRequest struct {
	CustomerIDs []int64 `json:"customerIds" validate:"required,min=1,dive,gt=0"`
	AdvisorID   int64   `json:"advisorId" validate:"required,gt=0"`
}

// AssignResult clientes efectivamente reasignados.
type AssignResult struct {
	Count int64 `json:"count"`
}

// UserSummaryResponse asesor o autor embebido.
type UserSummaryResponse struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// CommentResponse comentario con su autor.
type CommentResponse struct {
	ID          int64                `json:"id"`
	Description string               `json:"description"`
	CustomerID  int64                `json:"customerId"`
	CreatedByID int64                `json:"createdById"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   *UserSummaryResponse `json:"createdBy,omitempty"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Email         *string              `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	Department    string               `json:"department"`
	Document      string               `json:"document"`
	Birthdate     *string              `json:"birthdate"` // YYYY-MM-DD
	AdvisorID     *int64               `json:"advisorId"`
	StateID       int64                `json:"stateId"`
	DeliveryState string               `json:"deliveryState"`
	PlateNumber   *string              `json:"plateNumber"`
	DeliveryDate  *time.Time           `json:"deliveryDate"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Advisor       *UserSummaryResponse `json:"advisor,omitempty"`
	State         *StateResponse       `json:"state,omitempty"`
	Comments      []CommentResponse    `json:"comments,omitempty"`
}

// SkippedRow fila descartada en una importación (índice base 1).
type SkippedRow struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// AcceptedRow fila válida de una importación; puede no insertarse si su email ya existe.
type AcceptedRow struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`
}

// ImportResult resultado de una importación: filas aceptadas, insertadas y descartadas.
type ImportResult struct {
	Inserted     int64         `json:"inserted"`
	Accepted     int           `json:"accepted"`
	AcceptedRows []AcceptedRow `json:"acceptedRows"`
	Skipped      []SkippedRow  `json:"skipped"`
}

// ExportFile reporte generado.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

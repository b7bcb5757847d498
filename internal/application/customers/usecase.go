// Package customers implementa el ciclo de vida de clientes: listados por rol, altas,
// cambios con sello de entrega, comentarios, reasignaciones, importación y exportación.
package customers

import (
	"time"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
	"github.com/jhoicas/crm-motorenting/pkg/logger"
)

// Deps dependencias del caso de uso.
type Deps struct {
	Customers repository.CustomerRepository
	Users     repository.UserRepository
	Tx        TxRunner
	Policy    *access.Policy
	Catalog   pipeline.Catalog
	Decoder   RowDecoder
	Encoders  []ReportEncoder
	Logger    *logger.Logger
	Now       func() time.Time // nil = time.Now
}

// UseCase casos de uso de clientes. Cada operación recibe el principal autenticado.
type UseCase struct {
	repo     repository.CustomerRepository
	users    repository.UserRepository
	tx       TxRunner
	policy   *access.Policy
	catalog  pipeline.Catalog
	decoder  RowDecoder
	encoders map[string]ReportEncoder
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		repo:     d.Customers,
		users:    d.Users,
		tx:       d.Tx,
		policy:   d.Policy,
		catalog:  d.Catalog,
		decoder:  d.Decoder,
		encoders: make(map[string]ReportEncoder, len(d.Encoders)),
		log:      d.Logger,
		now:      d.Now,
	}
	for _, e := range d.Encoders {
		uc.encoders[e.Format()] = e
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	return uc
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	out := dto.CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Address:       c.Address,
		City:          c.City,
		Department:    c.Department,
		Document:      c.Document,
		AdvisorID:     c.AdvisorID,
		StateID:       c.StateID,
		DeliveryState: c.DeliveryState,
		PlateNumber:   c.PlateNumber,
		DeliveryDate:  c.DeliveryDate,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Birthdate != nil {
		s := c.Birthdate.Format(dto.DateLayout)
		out.Birthdate = &s
	}
	return out
}

func toDetailResponse(d *entity.CustomerDetail) dto.CustomerResponse {
	out := toCustomerResponse(&d.Customer)
	out.Advisor = toSummaryResponse(d.Advisor)
	if d.State != nil {
		out.State = &dto.StateResponse{ID: d.State.ID, Name: d.State.Name}
	}
	out.Comments = make([]dto.CommentResponse, 0, len(d.Comments))
	for _, cm := range d.Comments {
		out.Comments = append(out.Comments, toCommentResponse(cm))
	}
	return out
}

func toDetailResponses(list []*entity.CustomerDetail) []dto.CustomerResponse {
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDetailResponse(d))
	}
	return out
}

func toCommentResponse(cm entity.CommentDetail) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          cm.ID,
		Description: cm.Description,
		CustomerID:  cm.CustomerID,
		CreatedByID: cm.CreatedByID,
		CreatedAt:   cm.CreatedAt,
		CreatedBy:   toSummaryResponse(cm.CreatedBy),
	}
}

func toSummaryResponse(u *entity.UserSummary) *dto.UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &dto.UserSummaryResponse{ID: u.ID, Email: u.Email, Name: u.Name, Avatar: u.Avatar}
}

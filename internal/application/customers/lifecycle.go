package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// List clientes activos (fuera de la partición de entregados) visibles para el principal.
// El asesor solo ve los suyos y no ve los estados muertos.
func (uc *UseCase) List(ctx context.Context, pr access.Principal) ([]dto.CustomerResponse, error) {
	f := repository.CustomerFilter{
		AdvisorID:   uc.policy.OwnerFilter(pr),
		SaleStateID: uc.catalog.SaleStateID,
	}
	if uc.policy.HidesDeadStates(pr.Role) {
		f.ExcludeStateIDs = uc.catalog.DeadStateIDs
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(list), nil
}

// ListDelivered clientes entregados (estado de venta con placa), mismo alcance por dueño.
func (uc *UseCase) ListDelivered(ctx context.Context, pr access.Principal) ([]dto.CustomerResponse, error) {
	list, err := uc.listDelivered(ctx, pr)
	if err != nil {
		return nil, err
	}
	return toDetailResponses(list), nil
}

func (uc *UseCase) listDelivered(ctx context.Context, pr access.Principal) ([]*entity.CustomerDetail, error) {
	return uc.repo.List(ctx, repository.CustomerFilter{
		AdvisorID:   uc.policy.OwnerFilter(pr),
		SaleStateID: uc.catalog.SaleStateID,
		Delivered:   true,
	})
}

// GetByID cliente con asesor, estado y comentarios.
func (uc *UseCase) GetByID(ctx context.Context, pr access.Principal, id int64) (*dto.CustomerResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	if !uc.policy.CanAccessCustomer(pr, &d.Customer) {
		return nil, domain.Forbidden("No tienes permiso para ver este cliente")
	}
	out := toDetailResponse(d)
	return &out, nil
}

// Create registra un cliente. El asesor queda siempre como dueño; sin estado se usa el de por defecto.
func (uc *UseCase) Create(ctx context.Context, pr access.Principal, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, domain.InvalidInput("El nombre y el teléfono son obligatorios")
	}
	birthdate, err := parseCalendarDate(in.Birthdate)
	if err != nil {
		return nil, domain.InvalidInput("La fecha de nacimiento debe tener formato YYYY-MM-DD")
	}

	email := normalizeEmail(in.Email)
	if email != nil {
		if err := uc.ensureEmailFree(ctx, *email, 0); err != nil {
			return nil, err
		}
	}

	advisorID := uc.policy.ResolveAdvisor(pr, in.AdvisorID)
	if advisorID != nil && *advisorID != pr.ID {
		if err := uc.ensureAdvisor(ctx, *advisorID); err != nil {
			return nil, err
		}
	}

	stateID := uc.catalog.DefaultStateID
	if in.StateID != nil && *in.StateID > 0 {
		stateID = *in.StateID
	}

	now := uc.now()
	changes := pipeline.Changes{
		Name:          &name,
		Email:         email,
		Phone:         &phone,
		Address:       &in.Address,
		City:          &in.City,
		Department:    &in.Department,
		Document:      &in.Document,
		Birthdate:     birthdate,
		AdvisorID:     advisorID,
		StateID:       &stateID,
		DeliveryState: &in.DeliveryState,
		PlateNumber:   in.PlateNumber,
	}
	c := uc.catalog.ApplyChanges(entity.Customer{CreatedAt: now}, changes, now)
	if err := uc.repo.Create(ctx, &c); err != nil {
		return nil, err
	}

	uc.log.Info().Int64("customer_id", c.ID).Int64("by", pr.ID).Msg("cliente creado")
	out := toCustomerResponse(&c)
	return &out, nil
}

// Update aplica cambios parciales. El sello de entrega lo decide pipeline.ApplyChanges.
func (uc *UseCase) Update(ctx context.Context, pr access.Principal, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	cur, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	if !uc.policy.CanAccessCustomer(pr, cur) {
		return nil, domain.Forbidden("No tienes permiso para modificar este cliente")
	}

	changes := pipeline.Changes{
		Name:          in.Name,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		Department:    in.Department,
		Document:      in.Document,
		StateID:       in.StateID,
		DeliveryState: in.DeliveryState,
		PlateNumber:   in.PlateNumber,
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.InvalidInput("El nombre no puede quedar vacío")
	}
	if in.Phone != nil && strings.TrimSpace(*in.Phone) == "" {
		return nil, domain.InvalidInput("El teléfono no puede quedar vacío")
	}

	if in.AdvisorID != nil && !sameID(cur.AdvisorID, *in.AdvisorID) {
		if !uc.policy.CanReassign(pr.Role) {
			return nil, domain.Forbidden("No tienes permiso para reasignar este cliente")
		}
		if err := uc.ensureAdvisor(ctx, *in.AdvisorID); err != nil {
			return nil, err
		}
		changes.AdvisorID = in.AdvisorID
	}

	if in.Email != nil {
		email := normalizeEmail(in.Email)
		if email != nil && (cur.Email == nil || *cur.Email != *email) {
			if err := uc.ensureEmailFree(ctx, *email, cur.ID); err != nil {
				return nil, err
			}
		}
		empty := ""
		changes.Email = &empty
		if email != nil {
			changes.Email = email
		}
	}

	if in.Birthdate != nil && strings.TrimSpace(*in.Birthdate) != "" {
		b, err := parseCalendarDate(*in.Birthdate)
		if err != nil {
			return nil, domain.InvalidInput("La fecha de nacimiento debe tener formato YYYY-MM-DD")
		}
		changes.Birthdate = b
	}
	if in.DeliveryDate != nil && strings.TrimSpace(*in.DeliveryDate) != "" {
		d, err := parseTimestamp(*in.DeliveryDate)
		if err != nil {
			return nil, domain.InvalidInput("La fecha de entrega no es válida")
		}
		changes.DeliveryDate = &d
	}

	next := uc.catalog.ApplyChanges(*cur, changes, uc.now())
	if err := uc.repo.Update(ctx, &next); err != nil {
		return nil, err
	}
	if cur.DeliveryDate == nil && next.DeliveryDate != nil {
		uc.log.Info().Int64("customer_id", id).Time("delivery_date", *next.DeliveryDate).Msg("fecha de entrega registrada")
	}

	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		out := toCustomerResponse(&next)
		return &out, nil
	}
	out := toDetailResponse(d)
	return &out, nil
}

// Delete elimina el cliente y sus comentarios. Irreversible.
func (uc *UseCase) Delete(ctx context.Context, pr access.Principal, id int64) error {
	if err := uc.policy.Require(access.OpDeleteCustomer, pr, "No tienes permiso para eliminar clientes"); err != nil {
		return err
	}
	cur, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.NotFound("Cliente no encontrado")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Warn().Int64("customer_id", id).Int64("by", pr.ID).Str("role", pr.Role.String()).Msg("cliente eliminado")
	return nil
}

// AddComment agrega un comentario y actualiza updated_at del cliente en la misma transacción.
func (uc *UseCase) AddComment(ctx context.Context, pr access.Principal, customerID int64, in dto.AddCommentRequest) (*dto.CommentResponse, error) {
	text := strings.TrimSpace(in.Description)
	if text == "" {
		return nil, domain.InvalidInput("El comentario no puede estar vacío")
	}
	cur, err := uc.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	if !uc.policy.CanAccessCustomer(pr, cur) {
		return nil, domain.Forbidden("No puedes comentar este cliente")
	}

	now := uc.now()
	cm := entity.Comment{CustomerID: customerID, CreatedByID: pr.ID, Description: text, CreatedAt: now}
	err = uc.tx.RunCustomers(ctx, func(customers repository.CustomerRepository, comments repository.CommentRepository) error {
		if err := comments.Create(ctx, &cm); err != nil {
			return err
		}
		return customers.Touch(ctx, customerID, now)
	})
	if err != nil {
		return nil, err
	}

	out := toCommentResponse(entity.CommentDetail{Comment: cm})
	if author, err := uc.users.GetByID(ctx, pr.ID); err == nil && author != nil {
		out.CreatedBy = toSummaryResponse(author.Summary())
	}
	return &out, nil
}

func (uc *UseCase) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.Conflict(fmt.Sprintf("El cliente con email %s ya existe", email))
	}
	return nil
}

func (uc *UseCase) ensureAdvisor(ctx context.Context, advisorID int64) error {
	u, err := uc.users.GetByID(ctx, advisorID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NotFound(fmt.Sprintf("Asesor con id %d no encontrado", advisorID))
	}
	if u.Status != entity.UserStatusActive {
		return domain.InvalidInput(fmt.Sprintf("El asesor con id %d está inactivo", advisorID))
	}
	return nil
}

func sameID(cur *int64, id int64) bool {
	return cur != nil && *cur == id
}

// normalizeEmail recorta y pasa a minúsculas; vacío = sin email.
func normalizeEmail(s *string) *string {
	if s == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*s))
	if e == "" {
		return nil
	}
	return &e
}

// parseCalendarDate "" = sin fecha.
func parseCalendarDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > len(dto.DateLayout) {
		// admite "1990-01-01T00:00:00.000Z"
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dto.DateLayout, s)
}

package customers

import (
	"context"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

// AssignOne reasigna un cliente a un asesor.
func (uc *UseCase) AssignOne(ctx context.Context, pr access.Principal, customerID, advisorID int64) (*dto.CustomerResponse, error) {
	if err := uc.policy.Require(access.OpReassignCustomer, pr, "No tienes permiso para reasignar clientes"); err != nil {
		return nil, err
	}
	cur, err := uc.repo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	if err := uc.ensureAdvisor(ctx, advisorID); err != nil {
		return nil, err
	}

	if _, err := uc.repo.AssignAdvisor(ctx, []int64{customerID}, advisorID, uc.now()); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("customer_id", customerID).Int64("advisor_id", advisorID).Int64("by", pr.ID).Msg("cliente reasignado")

	d, err := uc.repo.GetDetail(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.NotFound("Cliente no encontrado")
	}
	out := toDetailResponse(d)
	return &out, nil
}

// AssignMany reasigna varios clientes en una sola sentencia dentro de una transacción.
// Devuelve cuántos clientes existían y fueron actualizados.
func (uc *UseCase) AssignMany(ctx context.Context, pr access.Principal, in dto.AssignMultipleRequest) (*dto.AssignResult, error) {
	if err := uc.policy.Require(access.OpBulkReassign, pr, "No tienes permiso para reasignar clientes"); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.CustomerIDs)
	if len(ids) == 0 {
		return nil, domain.InvalidInput("Debe indicar al menos un cliente")
	}
	if err := uc.ensureAdvisor(ctx, in.AdvisorID); err != nil {
		return nil, err
	}

	var count int64
	now := uc.now()
	err := uc.tx.RunCustomers(ctx, func(customers repository.CustomerRepository, _ repository.CommentRepository) error {
		n, err := customers.AssignAdvisor(ctx, ids, in.AdvisorID, now)
		count = n
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int("requested", len(ids)).Int64("updated", count).Int64("advisor_id", in.AdvisorID).Int64("by", pr.ID).Msg("reasignación masiva")
	return &dto.AssignResult{Count: count}, nil
}

func uniqueIDs(in []int64) []int64 {
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, id := range in {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

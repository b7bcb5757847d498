// Package access decide qué puede hacer cada rol sobre clientes y usuarios.
//
// Las reglas viven en una sola tabla (operación -> roles permitidos) para que
// handlers y casos de uso no repitan condicionales por rol.
package access

import (
	"fmt"
	"strings"

	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// Role nivel de privilegio ordenado. Un valor mayor es más privilegiado.
type Role int

const (
	RoleUnknown Role = iota
	RoleAsesor
	RoleCoordinador
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = map[Role]string{
	RoleAsesor:      entity.RoleAsesor,
	RoleCoordinador: entity.RoleCoordinador,
	RoleAdmin:       entity.RoleAdmin,
	RoleSuperAdmin:  entity.RoleSuperAdmin,
}

// ParseRole convierte el rol persistido ("ADMIN", "asesor", ...) al enum.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("rol desconocido: %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// AtLeast indica si r es igual o más privilegiado que other.
func (r Role) AtLeast(other Role) bool { return r >= other }

// Principal usuario autenticado que ejecuta la operación.
type Principal struct {
	ID   int64
	Role Role
}

// Operation acción sujeta a control de acceso.
type Operation string

const (
	OpSeeAllCustomers  Operation = "customers:see_all"
	OpCreateUnassigned Operation = "customers:create_unassigned"
	OpDeleteCustomer   Operation = "customers:delete"
	OpReassignCustomer Operation = "customers:reassign"
	OpBulkReassign     Operation = "customers:bulk_reassign"
	OpImportCustomers  Operation = "customers:import"
	OpExportCustomers  Operation = "customers:export"
	OpListUsers        Operation = "users:list"
	OpManageUsers      Operation = "users:manage"
	OpManageMotivation Operation = "motivation:manage"
)

var privileged = []Role{RoleSuperAdmin, RoleAdmin, RoleCoordinador}

// defaultTable roles permitidos por operación.
var defaultTable = map[Operation][]Role{
	OpSeeAllCustomers:  privileged,
	OpCreateUnassigned: privileged,
	OpDeleteCustomer:   {RoleSuperAdmin, RoleAdmin},
	OpReassignCustomer: privileged,
	OpBulkReassign:     privileged,
	OpImportCustomers:  privileged,
	OpExportCustomers:  privileged,
	OpListUsers:        privileged,
	OpManageUsers:      {RoleSuperAdmin, RoleAdmin},
	OpManageMotivation: privileged,
}

// Options ajustes de despliegue de la política.
type Options struct {
	// DeleteStrict restringe la eliminación de clientes a SUPER_ADMIN.
	DeleteStrict bool
}

// Policy evaluador de acceso. No tiene estado mutable; es seguro compartirlo.
type Policy struct {
	allowed map[Operation]map[Role]bool
}

// NewPolicy construye la política a partir de la tabla por defecto.
func NewPolicy(opts Options) *Policy {
	p := &Policy{allowed: make(map[Operation]map[Role]bool, len(defaultTable))}
	for op, roles := range defaultTable {
		set := make(map[Role]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		p.allowed[op] = set
	}
	if opts.DeleteStrict {
		p.allowed[OpDeleteCustomer] = map[Role]bool{RoleSuperAdmin: true}
	}
	return p
}

// Allows indica si el rol puede ejecutar la operación.
func (p *Policy) Allows(op Operation, r Role) bool {
	return p.allowed[op][r]
}

// Require devuelve ErrForbidden con msg si el principal no puede ejecutar op.
func (p *Policy) Require(op Operation, pr Principal, msg string) error {
	if !p.Allows(op, pr.Role) {
		return domain.Forbidden(msg)
	}
	return nil
}

func (p *Policy) CanSeeAll(r Role) bool           { return p.Allows(OpSeeAllCustomers, r) }
func (p *Policy) CanCreateUnassigned(r Role) bool { return p.Allows(OpCreateUnassigned, r) }
func (p *Policy) CanDelete(r Role) bool           { return p.Allows(OpDeleteCustomer, r) }
func (p *Policy) CanReassign(r Role) bool         { return p.Allows(OpReassignCustomer, r) }
func (p *Policy) CanBulkReassign(r Role) bool     { return p.Allows(OpBulkReassign, r) }
func (p *Policy) CanImport(r Role) bool           { return p.Allows(OpImportCustomers, r) }

// HidesDeadStates los estados "muertos" solo se ocultan a quien no ve todo.
func (p *Policy) HidesDeadStates(r Role) bool { return !p.CanSeeAll(r) }

// CanAccessCustomer el principal ve todo o es el asesor dueño del cliente.
func (p *Policy) CanAccessCustomer(pr Principal, c *entity.Customer) bool {
	if p.CanSeeAll(pr.Role) {
		return true
	}
	return c.AdvisorID != nil && *c.AdvisorID == pr.ID
}

// ResolveAdvisor decide el asesor de un cliente nuevo: el asesor siempre queda como dueño,
// los roles privilegiados dejan el valor pedido (o nil).
func (p *Policy) ResolveAdvisor(pr Principal, requested *int64) *int64 {
	if !p.CanCreateUnassigned(pr.Role) {
		id := pr.ID
		return &id
	}
	if requested == nil || *requested == 0 {
		return nil
	}
	id := *requested
	return &id
}

// OwnerFilter devuelve el id de asesor por el que hay que filtrar listados (nil = sin filtro).
func (p *Policy) OwnerFilter(pr Principal) *int64 {
	if p.CanSeeAll(pr.Role) {
		return nil
	}
	id := pr.ID
	return &id
}

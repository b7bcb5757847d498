package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"SUPER_ADMIN":  RoleSuperAdmin,
		"admin":        RoleAdmin,
		" Coordinador": RoleCoordinador,
		"ASESOR":       RoleAsesor,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRole("bodeguero")
	assert.Error(t, err)
}

func TestRole_Orden(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleCoordinador))
	assert.True(t, RoleCoordinador.AtLeast(RoleAsesor))
	assert.False(t, RoleAsesor.AtLeast(RoleCoordinador))
	assert.Equal(t, "COORDINADOR", RoleCoordinador.String())
}

func TestPolicy_TablaPorDefecto(t *testing.T) {
	p := NewPolicy(Options{})

	tests := []struct {
		op   Operation
		role Role
		want bool
	}{
		{OpSeeAllCustomers, RoleSuperAdmin, true},
		{OpSeeAllCustomers, RoleCoordinador, true},
		{OpSeeAllCustomers, RoleAsesor, false},
		{OpCreateUnassigned, RoleAsesor, false},
		{OpDeleteCustomer, RoleSuperAdmin, true},
		{OpDeleteCustomer, RoleAdmin, true},
		{OpDeleteCustomer, RoleCoordinador, false},
		{OpDeleteCustomer, RoleAsesor, false},
		{OpReassignCustomer, RoleCoordinador, true},
		{OpReassignCustomer, RoleAsesor, false},
		{OpBulkReassign, RoleAsesor, false},
		{OpImportCustomers, RoleAdmin, true},
		{OpImportCustomers, RoleAsesor, false},
		{OpManageUsers, RoleCoordinador, false},
		{OpListUsers, RoleCoordinador, true},
		{OpSeeAllCustomers, RoleUnknown, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Allows(tt.op, tt.role), "%s / %s", tt.op, tt.role)
	}
}

func TestPolicy_DeleteEstricto(t *testing.T) {
	p := NewPolicy(Options{DeleteStrict: true})
	assert.True(t, p.CanDelete(RoleSuperAdmin))
	assert.False(t, p.CanDelete(RoleAdmin))

	// el modo estricto no toca la tabla compartida
	assert.True(t, NewPolicy(Options{}).CanDelete(RoleAdmin))
}

func TestPolicy_Require(t *testing.T) {
	p := NewPolicy(Options{})
	err := p.Require(OpImportCustomers, Principal{ID: 5, Role: RoleAsesor}, "Solo ADMIN puede importar clientes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, "Solo ADMIN puede importar clientes", err.Error())

	assert.NoError(t, p.Require(OpImportCustomers, Principal{ID: 1, Role: RoleAdmin}, ""))
}

func TestPolicy_ResolveAdvisor(t *testing.T) {
	p := NewPolicy(Options{})
	other := int64(9)

	got := p.ResolveAdvisor(Principal{ID: 5, Role: RoleAsesor}, &other)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), *got, "el asesor siempre queda como dueño")

	got = p.ResolveAdvisor(Principal{ID: 1, Role: RoleAdmin}, &other)
	require.NotNil(t, got)
	assert.Equal(t, int64(9), *got)

	assert.Nil(t, p.ResolveAdvisor(Principal{ID: 1, Role: RoleCoordinador}, nil))
}

func TestPolicy_CanAccessCustomer(t *testing.T) {
	p := NewPolicy(Options{})
	owner := int64(9)
	c := &entity.Customer{ID: 10, AdvisorID: &owner}

	assert.False(t, p.CanAccessCustomer(Principal{ID: 5, Role: RoleAsesor}, c))
	assert.True(t, p.CanAccessCustomer(Principal{ID: 9, Role: RoleAsesor}, c))
	assert.True(t, p.CanAccessCustomer(Principal{ID: 1, Role: RoleCoordinador}, c))
	assert.False(t, p.CanAccessCustomer(Principal{ID: 5, Role: RoleAsesor}, &entity.Customer{ID: 11}))
}

func TestPolicy_OwnerFilterYDeadStates(t *testing.T) {
	p := NewPolicy(Options{})

	f := p.OwnerFilter(Principal{ID: 5, Role: RoleAsesor})
	require.NotNil(t, f)
	assert.Equal(t, int64(5), *f)
	assert.Nil(t, p.OwnerFilter(Principal{ID: 1, Role: RoleAdmin}))

	assert.True(t, p.HidesDeadStates(RoleAsesor))
	assert.False(t, p.HidesDeadStates(RoleAdmin))
}

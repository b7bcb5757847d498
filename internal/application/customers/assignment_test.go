package customers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-motorenting/internal/application/dto"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

func seedFive() []entity.Customer {
	return []entity.Customer{
		owned(1, 5, stateSinContactar),
		owned(2, 5, stateSinContactar),
		owned(3, 9, stateSufi),
		owned(4, 9, stateSufi),
		owned(5, 5, stateSufi),
	}
}

func TestAssignMany_SoloLosIdsIndicados(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: seedFive()})

	res, err := f.uc.AssignMany(context.Background(), admin1, dto.AssignMultipleRequest{
		CustomerIDs: []int64{1, 2, 3, 99, 3},
		AdvisorID:   7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Count, "el 99 no existe y el 3 repetido cuenta una vez")
	assert.Equal(t, 1, f.tx.Calls, "una sola transacción")

	for _, id := range []int64{1, 2, 3} {
		assert.Equal(t, int64(7), *f.store.get(id).AdvisorID, "cliente %d", id)
		assert.Equal(t, f.clock.Now(), f.store.get(id).UpdatedAt)
	}
	assert.Equal(t, int64(9), *f.store.get(4).AdvisorID)
	assert.Equal(t, int64(5), *f.store.get(5).AdvisorID)
}

func TestAssignMany_Errores(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: seedFive()})
	ctx := context.Background()

	_, err := f.uc.AssignMany(ctx, advisor5, dto.AssignMultipleRequest{CustomerIDs: []int64{1}, AdvisorID: 5})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.uc.AssignMany(ctx, coord2, dto.AssignMultipleRequest{CustomerIDs: []int64{}, AdvisorID: 7})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.AssignMany(ctx, coord2, dto.AssignMultipleRequest{CustomerIDs: []int64{1}, AdvisorID: 404})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Equal(t, 0, f.tx.Calls, "ningún error abre transacción")
	assert.Equal(t, int64(5), *f.store.get(1).AdvisorID)
}

func TestAssignMany_FalloDeTransaccion(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: seedFive()})
	f.tx.Err = errors.New("conexión perdida")

	_, err := f.uc.AssignMany(context.Background(), admin1, dto.AssignMultipleRequest{CustomerIDs: []int64{1, 2}, AdvisorID: 7})
	require.Error(t, err)
	assert.Equal(t, int64(5), *f.store.get(1).AdvisorID)
}

func TestAssignOne(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: seedFive()})
	ctx := context.Background()

	out, err := f.uc.AssignOne(ctx, coord2, 4, 5)
	require.NoError(t, err)
	require.NotNil(t, out.AdvisorID)
	assert.Equal(t, int64(5), *out.AdvisorID)

	_, err = f.uc.AssignOne(ctx, advisor5, 4, 5)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.uc.AssignOne(ctx, admin1, 404, 5)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = f.uc.AssignOne(ctx, admin1, 4, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAsesorInactivoNoRecibeClientes(t *testing.T) {
	f := newFixture(t, fixtureOpts{seed: seedFive()})
	ctx := context.Background()

	_, err := f.uc.AssignOne(ctx, coord2, 4, inactiveAdvisor)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.uc.AssignMany(ctx, admin1, dto.AssignMultipleRequest{CustomerIDs: []int64{1, 2}, AdvisorID: inactiveAdvisor})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, f.tx.Calls)

	advisor := inactiveAdvisor
	_, err = f.uc.Create(ctx, admin1, dto.CreateCustomerRequest{Name: "Iván", Phone: "310", AdvisorID: &advisor})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, int64(9), *f.store.get(4).AdvisorID)
	assert.Equal(t, int64(5), *f.store.get(1).AdvisorID)
}

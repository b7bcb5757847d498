//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
	"github.com/jhoicas/crm-motorenting/pkg/config"
	"github.com/jhoicas/crm-motorenting/pkg/logger"
)

// startDB levanta PostgreSQL en un contenedor y aplica las migraciones.
func startDB(t *testing.T) config.DBConfig {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("crm_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, Migrate(dsn, logger.Nop()))
	return config.DBConfig{DatabaseURL: dsn}
}

func TestIntegration_FlujoDeClientes(t *testing.T) {
	cfg := startDB(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// Segunda corrida sin cambios.
	require.NoError(t, Migrate(cfg.DatabaseURL, logger.Nop()))

	states, err := NewPipelineStateRepository(pool).List(ctx)
	require.NoError(t, err)
	assert.Len(t, states, len(pipeline.CanonicalStates))
	catalog, err := pipeline.NewCatalog(states, "Sin Contactar", "VENTA", []string{"REPORTADO"})
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	advisor := &entity.User{Email: "asesor@crm.co", PasswordHash: "x", Name: "Asesor", Role: entity.RoleAsesor,
		Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewUserRepository(pool).Create(ctx, advisor))

	customers := NewCustomerRepository(pool)
	email := "ana@crm.co"
	c := &entity.Customer{Name: "Ana", Email: &email, Phone: "300", StateID: catalog.DefaultStateID,
		AdvisorID: &advisor.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, customers.Create(ctx, c))

	plate := "ABC12D"
	batch := []*entity.Customer{
		{Name: "Ana repetida", Email: &email, Phone: "1", StateID: catalog.DefaultStateID, CreatedAt: now, UpdatedAt: now},
		{Name: "Beto", Phone: "2", StateID: catalog.SaleStateID, PlateNumber: &plate, CreatedAt: now, UpdatedAt: now},
	}
	n, err := customers.CreateMany(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	tx := NewTxRunner(pool)
	err = tx.RunCustomers(ctx, func(cr repository.CustomerRepository, cm repository.CommentRepository) error {
		if err := cm.Create(ctx, &entity.Comment{Description: "llamar mañana", CustomerID: c.ID,
			CreatedByID: advisor.ID, CreatedAt: now}); err != nil {
			return err
		}
		return cr.Touch(ctx, c.ID, now.Add(time.Minute))
	})
	require.NoError(t, err)

	active, err := customers.List(ctx, repository.CustomerFilter{AdvisorID: &advisor.ID, SaleStateID: catalog.SaleStateID})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ana", active[0].Name)
	require.Len(t, active[0].Comments, 1)
	assert.Equal(t, "Asesor", active[0].Comments[0].CreatedBy.Name)

	delivered, err := customers.List(ctx, repository.CustomerFilter{SaleStateID: catalog.SaleStateID, Delivered: true})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "Beto", delivered[0].Name)

	// Borrar el asesor deja al cliente sin asignar.
	require.NoError(t, NewUserRepository(pool).Delete(ctx, advisor.ID))
	got, err := customers.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AdvisorID)
}

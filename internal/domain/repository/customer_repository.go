package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
)

// CustomerFilter criterios de listado de clientes.
type CustomerFilter struct {
	AdvisorID       *int64  // nil = todos los asesores
	SaleStateID     int64   // estado de venta que define la partición "entregados"
	Delivered       bool    // true = solo entregados, false = solo activos
	ExcludeStateIDs []int64 // estados ocultos (estados muertos del asesor)
}

// CustomerRepository define el puerto de persistencia para Customer.
// Los métodos Get devuelven (nil, nil) cuando el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	GetDetail(ctx context.Context, id int64) (*entity.CustomerDetail, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.CustomerDetail, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id int64) error
	// Touch actualiza solo updated_at.
	Touch(ctx context.Context, id int64, at time.Time) error
	// AssignAdvisor reasigna los clientes cuyos ids estén en la lista; devuelve las filas afectadas.
	AssignAdvisor(ctx context.Context, ids []int64, advisorID int64, at time.Time) (int64, error)
	// CreateMany inserta en bloque ignorando los emails duplicados; devuelve las filas insertadas.
	CreateMany(ctx context.Context, customers []*entity.Customer) (int64, error)
}

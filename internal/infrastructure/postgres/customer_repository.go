package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// insertChunkSize filas por sentencia en CreateMany (15 parámetros por fila, muy por debajo del límite de 65535).
const insertChunkSize = 500

const customerColumns = `c.id, c.name, c.email, c.phone, c.address, c.city, c.department, c.document,
	c.birthdate, c.advisor_id, c.state_id, c.delivery_state, c.plate_number, c.delivery_date,
	c.created_at, c.updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func customerDest(c *entity.Customer) []any {
	return []any{
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Department, &c.Document,
		&c.Birthdate, &c.AdvisorID, &c.StateID, &c.DeliveryState, &c.PlateNumber, &c.DeliveryDate,
		&c.CreatedAt, &c.UpdatedAt,
	}
}

// Create persiste un nuevo cliente y completa su ID.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address, city, department, document, birthdate,
			advisor_id, state_id, delivery_state, plate_number, delivery_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Address, c.City, c.Department, c.Document, c.Birthdate,
		nullIfZero(c.AdvisorID), c.StateID, c.DeliveryState, c.PlateNumber, c.DeliveryDate,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("El email ya está registrado")
		}
		if isForeignKeyViolation(err) {
			return domain.InvalidInput("El estado o el asesor indicado no existe")
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id)
}

// GetByEmail obtiene un cliente por email (comparación exacta).
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers c WHERE c.email = $1`, email)
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.q.QueryRow(ctx, query, arg).Scan(customerDest(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// GetDetail cliente con asesor, estado y comentarios.
func (r *CustomerRepo) GetDetail(ctx context.Context, id int64) (*entity.CustomerDetail, error) {
	list, err := r.listDetails(ctx, "c.id = $1", []any{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List clientes ordenados por updated_at descendente según el filtro.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.CustomerDetail, error) {
	where, args := buildCustomerFilter(f)
	return r.listDetails(ctx, where, args)
}

// buildCustomerFilter arma el WHERE de List. La partición "entregados" es estado de venta + placa no vacía.
func buildCustomerFilter(f repository.CustomerFilter) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	delivered := "(c.state_id = " + next(f.SaleStateID) + " AND c.plate_number IS NOT NULL AND btrim(c.plate_number) <> '')"
	if f.Delivered {
		conds = append(conds, delivered)
	} else {
		conds = append(conds, "NOT "+delivered)
	}
	if f.AdvisorID != nil {
		conds = append(conds, "c.advisor_id = "+next(*f.AdvisorID))
	}
	if len(f.ExcludeStateIDs) > 0 {
		conds = append(conds, "NOT (c.state_id = ANY("+next(f.ExcludeStateIDs)+"))")
	}
	return strings.Join(conds, " AND "), args
}

func (r *CustomerRepo) listDetails(ctx context.Context, where string, args []any) ([]*entity.CustomerDetail, error) {
	query := `
		SELECT ` + customerColumns + `,
			u.id, u.email, u.name, u.avatar, s.id, s.name
		FROM customers c
		LEFT JOIN users u ON u.id = c.advisor_id
		JOIN pipeline_states s ON s.id = c.state_id
		WHERE ` + where + `
		ORDER BY c.updated_at DESC, c.id DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.CustomerDetail
	byID := make(map[int64]*entity.CustomerDetail)
	for rows.Next() {
		d := &entity.CustomerDetail{State: &entity.PipelineState{}}
		var advID *int64
		var advEmail, advName, advAvatar *string
		dest := append(customerDest(&d.Customer), &advID, &advEmail, &advName, &advAvatar, &d.State.ID, &d.State.Name)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		if advID != nil {
			d.Advisor = &entity.UserSummary{ID: *advID, Email: deref(advEmail), Name: deref(advName), Avatar: deref(advAvatar)}
		}
		d.Comments = []entity.CommentDetail{}
		list = append(list, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]int64, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	comments, err := listComments(ctx, r.q, ids)
	if err != nil {
		return nil, err
	}
	for _, cm := range comments {
		if d, ok := byID[cm.CustomerID]; ok {
			d.Comments = append(d.Comments, cm)
		}
	}
	return list, nil
}

// Update actualiza todos los campos editables del cliente.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, city = $6,
			department = $7, document = $8, birthdate = $9, advisor_id = $10, state_id = $11,
			delivery_state = $12, plate_number = $13, delivery_date = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.Department, c.Document, c.Birthdate,
		nullIfZero(c.AdvisorID), c.StateID, c.DeliveryState, c.PlateNumber, c.DeliveryDate, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("El email ya está registrado")
		}
		if isForeignKeyViolation(err) {
			return domain.InvalidInput("El estado o el asesor indicado no existe")
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Cliente no encontrado")
	}
	return nil
}

// Delete elimina un cliente por ID (los comentarios caen en cascada).
func (r *CustomerRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Cliente no encontrado")
	}
	return nil
}

// Touch actualiza solo updated_at.
func (r *CustomerRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE customers SET updated_at = $2 WHERE id = $1`, id, at); err != nil {
		return fmt.Errorf("touch customer: %w", err)
	}
	return nil
}

// AssignAdvisor reasigna en una sola sentencia los clientes de ids.
func (r *CustomerRepo) AssignAdvisor(ctx context.Context, ids []int64, advisorID int64, at time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET advisor_id = $2, updated_at = $3 WHERE id = ANY($1)`,
		ids, advisorID, at)
	if err != nil {
		return 0, fmt.Errorf("assign advisor: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreateMany inserta por bloques; los emails ya existentes se omiten (ON CONFLICT DO NOTHING).
func (r *CustomerRepo) CreateMany(ctx context.Context, customers []*entity.Customer) (int64, error) {
	var inserted int64
	for start := 0; start < len(customers); start += insertChunkSize {
		end := min(start+insertChunkSize, len(customers))
		query, args := bulkInsertCustomers(customers[start:end])
		tag, err := r.q.Exec(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("bulk insert customers: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

func bulkInsertCustomers(chunk []*entity.Customer) (string, []any) {
	const cols = 15
	var b strings.Builder
	b.WriteString(`INSERT INTO customers (name, email, phone, address, city, department, document, birthdate,
		advisor_id, state_id, delivery_state, plate_number, delivery_date, created_at, updated_at) VALUES `)
	args := make([]any, 0, len(chunk)*cols)
	for i, c := range chunk {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < cols; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*cols+j+1)
		}
		b.WriteByte(')')
		args = append(args,
			c.Name, c.Email, c.Phone, c.Address, c.City, c.Department, c.Document, c.Birthdate,
			nullIfZero(c.AdvisorID), c.StateID, c.DeliveryState, c.PlateNumber, c.DeliveryDate,
			c.CreatedAt, c.UpdatedAt)
	}
	b.WriteString(" ON CONFLICT (email) DO NOTHING")
	return b.String(), args
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package customers_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-motorenting/internal/application/customers"
	"github.com/jhoicas/crm-motorenting/internal/domain"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/pipeline"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
	"github.com/jhoicas/crm-motorenting/internal/mocks"
)

const (
	stateSinContactar int64 = 1
	stateReportado    int64 = 3
	stateSufi         int64 = 7
	stateVenta        int64 = 18
)

var (
	advisor5  = access.Principal{ID: 5, Role: access.RoleAsesor}
	admin1    = access.Principal{ID: 1, Role: access.RoleAdmin}
	coord2    = access.Principal{ID: 2, Role: access.RoleCoordinador}
	superRoot = access.Principal{ID: 100, Role: access.RoleSuperAdmin}
)

func ptr[T any](v T) *T { return &v }

func advisorPrincipal(id int64) access.Principal {
	return access.Principal{ID: id, Role: access.RoleAsesor}
}

func testCatalog(t *testing.T) pipeline.Catalog {
	t.Helper()
	states := make([]entity.PipelineState, 0, len(pipeline.CanonicalStates))
	for i, name := range pipeline.CanonicalStates {
		states = append(states, entity.PipelineState{ID: int64(i + 1), Name: name})
	}
	c, err := pipeline.NewCatalog(states, "Sin Contactar", "VENTA", []string{"REPORTADO", "NO INTERESADO"})
	require.NoError(t, err)
	return c
}

// clock reloj controlable.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// memStore clientes y comentarios en memoria detrás de los mocks de repositorio.
type memStore struct {
	customers map[int64]*entity.Customer
	comments  []entity.Comment
	nextID    int64
	touched   map[int64]time.Time
}

func newMemStore(seed ...entity.Customer) *memStore {
	s := &memStore{customers: map[int64]*entity.Customer{}, touched: map[int64]time.Time{}}
	for _, c := range seed {
		cp := c
		s.customers[c.ID] = &cp
		if c.ID > s.nextID {
			s.nextID = c.ID
		}
	}
	return s
}

func (s *memStore) get(id int64) *entity.Customer {
	c, ok := s.customers[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

func (s *memStore) emailTaken(email *string) bool {
	if email == nil {
		return false
	}
	for _, c := range s.customers {
		if c.Email != nil && *c.Email == *email {
			return true
		}
	}
	return false
}

func (s *memStore) detail(c *entity.Customer) *entity.CustomerDetail {
	d := &entity.CustomerDetail{Customer: *c, State: &entity.PipelineState{ID: c.StateID}}
	if c.AdvisorID != nil {
		d.Advisor = &entity.UserSummary{ID: *c.AdvisorID, Name: "asesor"}
	}
	for _, cm := range s.comments {
		if cm.CustomerID == c.ID {
			d.Comments = append(d.Comments, entity.CommentDetail{Comment: cm})
		}
	}
	return d
}

func (s *memStore) customerRepo() *mocks.MockCustomerRepository {
	return &mocks.MockCustomerRepository{
		CreateFunc: func(_ context.Context, c *entity.Customer) error {
			if s.emailTaken(c.Email) {
				return domain.Conflict("El email ya está registrado")
			}
			s.nextID++
			c.ID = s.nextID
			cp := *c
			s.customers[c.ID] = &cp
			return nil
		},
		GetByIDFunc: func(_ context.Context, id int64) (*entity.Customer, error) {
			return s.get(id), nil
		},
		GetByEmailFunc: func(_ context.Context, email string) (*entity.Customer, error) {
			for _, c := range s.customers {
				if c.Email != nil && *c.Email == email {
					return s.get(c.ID), nil
				}
			}
			return nil, nil
		},
		GetDetailFunc: func(_ context.Context, id int64) (*entity.CustomerDetail, error) {
			c := s.get(id)
			if c == nil {
				return nil, nil
			}
			return s.detail(c), nil
		},
		ListFunc: func(_ context.Context, f repository.CustomerFilter) ([]*entity.CustomerDetail, error) {
			var out []*entity.CustomerDetail
			for _, c := range s.customers {
				delivered := c.StateID == f.SaleStateID && c.PlateNumber != nil && strings.TrimSpace(*c.PlateNumber) != ""
				if delivered != f.Delivered {
					continue
				}
				if f.AdvisorID != nil && (c.AdvisorID == nil || *c.AdvisorID != *f.AdvisorID) {
					continue
				}
				excluded := false
				for _, id := range f.ExcludeStateIDs {
					if c.StateID == id {
						excluded = true
					}
				}
				if excluded {
					continue
				}
				out = append(out, s.detail(s.get(c.ID)))
			}
			sort.Slice(out, func(i, j int) bool {
				if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
					return out[i].ID > out[j].ID
				}
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			})
			return out, nil
		},
		UpdateFunc: func(_ context.Context, c *entity.Customer) error {
			if _, ok := s.customers[c.ID]; !ok {
				return domain.NotFound("Cliente no encontrado")
			}
			cp := *c
			s.customers[c.ID] = &cp
			return nil
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			delete(s.customers, id)
			return nil
		},
		TouchFunc: func(_ context.Context, id int64, at time.Time) error {
			s.touched[id] = at
			if c, ok := s.customers[id]; ok {
				c.UpdatedAt = at
			}
			return nil
		},
		AssignAdvisorFunc: func(_ context.Context, ids []int64, advisorID int64, at time.Time) (int64, error) {
			var n int64
			for _, id := range ids {
				if c, ok := s.customers[id]; ok {
					adv := advisorID
					c.AdvisorID = &adv
					c.UpdatedAt = at
					n++
				}
			}
			return n, nil
		},
		CreateManyFunc: func(_ context.Context, list []*entity.Customer) (int64, error) {
			var n int64
			for _, c := range list {
				if s.emailTaken(c.Email) {
					continue
				}
				s.nextID++
				cp := *c
				cp.ID = s.nextID
				s.customers[cp.ID] = &cp
				n++
			}
			return n, nil
		},
	}
}

func (s *memStore) commentRepo() *mocks.MockCommentRepository {
	return &mocks.MockCommentRepository{
		CreateFunc: func(_ context.Context, c *entity.Comment) error {
			c.ID = int64(len(s.comments) + 1)
			s.comments = append(s.comments, *c)
			return nil
		},
	}
}

// inactiveAdvisor usuario existente pero desactivado.
const inactiveAdvisor int64 = 8

// usersWith repositorio de usuarios donde solo existen los ids dados (más inactiveAdvisor).
func usersWith(ids ...int64) *mocks.MockUserRepository {
	return &mocks.MockUserRepository{
		GetByIDFunc: func(_ context.Context, id int64) (*entity.User, error) {
			if id == inactiveAdvisor {
				return &entity.User{ID: id, Email: "baja@crm.co", Name: "Dado de baja", Role: entity.RoleAsesor, Status: entity.UserStatusInactive}, nil
			}
			for _, existing := range ids {
				if existing == id {
					return &entity.User{ID: id, Email: "u@crm.co", Name: "Usuario", Role: entity.RoleAsesor, Status: entity.UserStatusActive}, nil
				}
			}
			return nil, nil
		},
	}
}

// fakeEncoder captura el reporte recibido.
type fakeEncoder struct {
	format string
	got    *customers.Report
}

func (e *fakeEncoder) Format() string      { return e.format }
func (e *fakeEncoder) ContentType() string { return "application/x-" + e.format }
func (e *fakeEncoder) Encode(r customers.Report) ([]byte, error) {
	e.got = &r
	return []byte("report:" + e.format), nil
}

// fakeDecoder devuelve filas fijas y cuenta llamadas.
type fakeDecoder struct {
	rows  []customers.Row
	err   error
	calls int
}

func (d *fakeDecoder) Decode(string, []byte) ([]customers.Row, error) {
	d.calls++
	return d.rows, d.err
}

type fixture struct {
	uc      *customers.UseCase
	store   *memStore
	tx      *mocks.MockTxRunner
	clock   *clock
	decoder *fakeDecoder
	xlsx    *fakeEncoder
}

type fixtureOpts struct {
	strictDelete bool
	seed         []entity.Customer
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()
	store := newMemStore(opts.seed...)
	repo := store.customerRepo()
	tx := &mocks.MockTxRunner{Customers: repo, Comments: store.commentRepo()}
	clk := &clock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	dec := &fakeDecoder{}
	xlsx := &fakeEncoder{format: "xlsx"}

	uc := customers.NewUseCase(customers.Deps{
		Customers: repo,
		Users:     usersWith(1, 2, 5, 7, 9),
		Tx:        tx,
		Policy:    access.NewPolicy(access.Options{DeleteStrict: opts.strictDelete}),
		Catalog:   testCatalog(t),
		Decoder:   dec,
		Encoders:  []customers.ReportEncoder{xlsx, &fakeEncoder{format: "pdf"}},
		Now:       clk.Now,
	})
	return &fixture{uc: uc, store: store, tx: tx, clock: clk, decoder: dec, xlsx: xlsx}
}

func owned(id, advisor, state int64) entity.Customer {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return entity.Customer{
		ID:        id,
		Name:      "Cliente",
		Phone:     "300",
		AdvisorID: &advisor,
		StateID:   state,
		CreatedAt: base,
		UpdatedAt: base.Add(time.Duration(id) * time.Hour),
	}
}

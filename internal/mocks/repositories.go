// Package mocks dobles de prueba con campos función para los puertos de persistencia.
// Un campo nil devuelve el valor cero del método.
package mocks

import (
	"context"
	"time"

	"github.com/jhoicas/crm-motorenting/internal/domain/entity"
	"github.com/jhoicas/crm-motorenting/internal/domain/repository"
)

var (
	_ repository.CustomerRepository      = (*MockCustomerRepository)(nil)
	_ repository.CommentRepository       = (*MockCommentRepository)(nil)
	_ repository.UserRepository          = (*MockUserRepository)(nil)
	_ repository.PipelineStateRepository = (*MockPipelineStateRepository)(nil)
	_ repository.MotivationRepository    = (*MockMotivationRepository)(nil)
)

// MockCustomerRepository mock de CustomerRepository.
type MockCustomerRepository struct {
	CreateFunc        func(ctx context.Context, c *entity.Customer) error
	GetByIDFunc       func(ctx context.Context, id int64) (*entity.Customer, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*entity.Customer, error)
	GetDetailFunc     func(ctx context.Context, id int64) (*entity.CustomerDetail, error)
	ListFunc          func(ctx context.Context, f repository.CustomerFilter) ([]*entity.CustomerDetail, error)
	UpdateFunc        func(ctx context.Context, c *entity.Customer) error
	DeleteFunc        func(ctx context.Context, id int64) error
	TouchFunc         func(ctx context.Context, id int64, at time.Time) error
	AssignAdvisorFunc func(ctx context.Context, ids []int64, advisorID int64, at time.Time) (int64, error)
	CreateManyFunc    func(ctx context.Context, list []*entity.Customer) (int64, error)
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockCustomerRepository) GetDetail(ctx context.Context, id int64) (*entity.CustomerDetail, error) {
	if m.GetDetailFunc != nil {
		return m.GetDetailFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCustomerRepository) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.CustomerDetail, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return []*entity.CustomerDetail{}, nil
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCustomerRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, id, at)
	}
	return nil
}

func (m *MockCustomerRepository) AssignAdvisor(ctx context.Context, ids []int64, advisorID int64, at time.Time) (int64, error) {
	if m.AssignAdvisorFunc != nil {
		return m.AssignAdvisorFunc(ctx, ids, advisorID, at)
	}
	return 0, nil
}

func (m *MockCustomerRepository) CreateMany(ctx context.Context, list []*entity.Customer) (int64, error) {
	if m.CreateManyFunc != nil {
		return m.CreateManyFunc(ctx, list)
	}
	return int64(len(list)), nil
}

// MockCommentRepository mock de CommentRepository.
type MockCommentRepository struct {
	CreateFunc         func(ctx context.Context, c *entity.Comment) error
	ListByCustomerFunc func(ctx context.Context, customerID int64) ([]entity.CommentDetail, error)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *MockCommentRepository) ListByCustomer(ctx context.Context, customerID int64) ([]entity.CommentDetail, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return []entity.CommentDetail{}, nil
}

// MockUserRepository mock de UserRepository.
type MockUserRepository struct {
	CreateFunc     func(ctx context.Context, u *entity.User) error
	GetByIDFunc    func(ctx context.Context, id int64) (*entity.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	ListFunc       func(ctx context.Context) ([]*entity.User, error)
	UpdateFunc     func(ctx context.Context, u *entity.User) error
	DeleteFunc     func(ctx context.Context, id int64) error
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*entity.User{}, nil
}

func (m *MockUserRepository) Update(ctx context.Context, u *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockPipelineStateRepository mock de PipelineStateRepository.
type MockPipelineStateRepository struct {
	ListFunc    func(ctx context.Context) ([]entity.PipelineState, error)
	GetByIDFunc func(ctx context.Context, id int64) (*entity.PipelineState, error)
}

func (m *MockPipelineStateRepository) List(ctx context.Context) ([]entity.PipelineState, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []entity.PipelineState{}, nil
}

func (m *MockPipelineStateRepository) GetByID(ctx context.Context, id int64) (*entity.PipelineState, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockMotivationRepository mock de MotivationRepository.
type MockMotivationRepository struct {
	LatestFunc  func(ctx context.Context) (*entity.MotivationMessage, error)
	GetByIDFunc func(ctx context.Context, id int64) (*entity.MotivationMessage, error)
	CreateFunc  func(ctx context.Context, m *entity.MotivationMessage) error
	UpdateFunc  func(ctx context.Context, m *entity.MotivationMessage) error
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *MockMotivationRepository) Latest(ctx context.Context) (*entity.MotivationMessage, error) {
	if m.LatestFunc != nil {
		return m.LatestFunc(ctx)
	}
	return nil, nil
}

func (m *MockMotivationRepository) GetByID(ctx context.Context, id int64) (*entity.MotivationMessage, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMotivationRepository) Create(ctx context.Context, msg *entity.MotivationMessage) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	return nil
}

func (m *MockMotivationRepository) Update(ctx context.Context, msg *entity.MotivationMessage) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, msg)
	}
	return nil
}

func (m *MockMotivationRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTxRunner ejecuta fn sin transacción real con los repositorios configurados.
type MockTxRunner struct {
	Customers repository.CustomerRepository
	Comments  repository.CommentRepository
	Calls     int
	Err       error // si no es nil, se devuelve sin ejecutar fn
}

func (m *MockTxRunner) RunCustomers(ctx context.Context, fn func(
	customers repository.CustomerRepository,
	comments repository.CommentRepository,
) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(m.Customers, m.Comments)
}

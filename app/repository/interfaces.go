package repository

import (
	"context"
	"time"

	"github.com/shvarc/provider/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetRole(ctx context.Context, username, role string) error
	Count(ctx context.Context) (int64, error)
}

// CustomerRepository defines the interface for customer profile operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Customer, error)
	UpdateProfile(ctx context.Context, customer *models.Customer) error
	Count(ctx context.Context) (int64, error)
}

// ServiceRepository defines the interface for service catalog operations
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	GetBySlug(ctx context.Context, slug string) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uint) error
}

// PlanSort orders a plan listing. The zero value orders by primary key.
type PlanSort struct {
	Column string
	Desc   bool
}

// PlanRepository defines the interface for the three plan tables. The kind
// argument selects the table.
type PlanRepository interface {
	Create(ctx context.Context, plan models.Planner) error
	List(ctx context.Context, kind models.PlanKind, sort PlanSort) ([]models.Planner, error)
	First(ctx context.Context, kind models.PlanKind) (models.Planner, error)
	GetByID(ctx context.Context, kind models.PlanKind, id uint) (models.Planner, error)
	GetBySlug(ctx context.Context, kind models.PlanKind, serviceID uint, slug string) (models.Planner, error)
	Update(ctx context.Context, plan models.Planner) error
	Delete(ctx context.Context, kind models.PlanKind, id uint) error
	Count(ctx context.Context) (int64, error)
}

// OrderRepository defines the interface for carts and order lines
type OrderRepository interface {
	CreateList(ctx context.Context, list *models.OrderedPlansList) error
	GetListByOwner(ctx context.Context, ownerID uint) (*models.OrderedPlansList, error)
	Create(ctx context.Context, line *models.OrderedPlan) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.OrderedPlan, error)
	FindLine(ctx context.Context, ownerID uint, ref models.PlanRef) (*models.OrderedPlan, error)
	ExistsForService(ctx context.Context, ownerID, serviceID uint) (bool, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.OrderedPlan, error)
	CountByPlan(ctx context.Context, ref models.PlanRef) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	db *gorm.DB

	User     UserRepository
	Customer CustomerRepository
	Service  ServiceRepository
	Plan     PlanRepository
	Order    OrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		User:     NewUserRepository(db),
		Customer: NewCustomerRepository(db),
		Service:  NewServiceRepository(db),
		Plan:     NewPlanRepository(db),
		Order:    NewOrderRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single database
// transaction. The transaction commits when fn returns nil.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

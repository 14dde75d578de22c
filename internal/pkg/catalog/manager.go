package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
)

var (
	ErrServiceNotRegistered = errors.New("service slug is not registered")
	ErrServiceHasPlans      = errors.New("service still has plans")
	ErrPlanOrdered          = errors.New("plan is still ordered")
)

// Manager edits services and plans for the admin pages.
type Manager struct {
	registry Registry
	services repository.ServiceRepository
	plans    repository.PlanRepository
	orders   repository.OrderRepository
}

func NewManager(registry Registry, repos *repository.Repositories) *Manager {
	return &Manager{registry: registry, services: repos.Service, plans: repos.Plan, orders: repos.Order}
}

// RegisteredSlugs lists the slugs a service may use.
func (m *Manager) RegisteredSlugs() []string {
	return m.registry.Slugs()
}

func (m *Manager) Services(ctx context.Context) ([]models.Service, error) {
	return m.services.List(ctx)
}

func (m *Manager) Service(ctx context.Context, id uint) (*models.Service, error) {
	return m.services.GetByID(ctx, id)
}

// CreateService adds a service. Its slug must map to a plan table.
func (m *Manager) CreateService(ctx context.Context, service *models.Service) error {
	if err := m.checkSlug(service.Slug); err != nil {
		return err
	}
	return m.services.Create(ctx, service)
}

func (m *Manager) UpdateService(ctx context.Context, service *models.Service) error {
	if err := m.checkSlug(service.Slug); err != nil {
		return err
	}
	return m.services.Update(ctx, service)
}

// DeleteService removes a service that no plan belongs to.
func (m *Manager) DeleteService(ctx context.Context, id uint) error {
	service, err := m.services.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, kind := range models.PlanKinds {
		plans, err := m.plans.List(ctx, kind, repository.PlanSort{})
		if err != nil {
			return err
		}
		for _, p := range plans {
			if p.Base().ServiceID == service.ID {
				return fmt.Errorf("%w: %s", ErrServiceHasPlans, service.Slug)
			}
		}
	}
	return m.services.Delete(ctx, id)
}

// ServiceForKind returns the service whose plans live in the table of kind.
func (m *Manager) ServiceForKind(ctx context.Context, kind models.PlanKind) (*models.Service, error) {
	slug, ok := m.registry.Slug(kind)
	if !ok {
		return nil, fmt.Errorf("%w: no service for %s plans", ErrUnknownService, kind)
	}

	service, err := m.services.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, slug)
		}
		return nil, err
	}
	return service, nil
}

func (m *Manager) Plans(ctx context.Context, kind models.PlanKind) ([]models.Planner, error) {
	return m.plans.List(ctx, kind, repository.PlanSort{})
}

func (m *Manager) Plan(ctx context.Context, kind models.PlanKind, id uint) (models.Planner, error) {
	return m.plans.GetByID(ctx, kind, id)
}

// CreatePlan files the plan under the service registered for its kind.
func (m *Manager) CreatePlan(ctx context.Context, plan models.Planner) error {
	service, err := m.ServiceForKind(ctx, plan.Kind())
	if err != nil {
		return err
	}

	b := plan.Base()
	b.ServiceID = service.ID
	b.Service = *service
	return m.plans.Create(ctx, plan)
}

func (m *Manager) UpdatePlan(ctx context.Context, plan models.Planner) error {
	return m.plans.Update(ctx, plan)
}

// DeletePlan removes a plan no order line points at.
func (m *Manager) DeletePlan(ctx context.Context, kind models.PlanKind, id uint) error {
	n, err := m.orders.CountByPlan(ctx, models.PlanRef{Kind: kind, ID: id})
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %s:%d has %d order lines", ErrPlanOrdered, kind, id, n)
	}
	return m.plans.Delete(ctx, kind, id)
}

func (m *Manager) checkSlug(slug string) error {
	if _, ok := m.registry.Kind(slug); !ok {
		return fmt.Errorf("%w: %q", ErrServiceNotRegistered, slug)
	}
	return nil
}

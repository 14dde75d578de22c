package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
)

var (
	ErrUnknownService = errors.New("no such service")
	ErrPlanNotFound   = errors.New("plan not found")
)

// Service answers catalog queries for the pages and the read API.
type Service struct {
	registry Registry
	services repository.ServiceRepository
	plans    repository.PlanRepository
}

func NewService(registry Registry, services repository.ServiceRepository, plans repository.PlanRepository) *Service {
	return &Service{registry: registry, services: services, plans: plans}
}

// PlanKindForService returns the plan table of a service slug.
func (s *Service) PlanKindForService(slug string) (models.PlanKind, error) {
	kind, ok := s.registry.Kind(slug)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownService, slug)
	}
	return kind, nil
}

// ListPlans returns all plans of a kind ordered by sortKey. Unknown keys
// give primary key order.
func (s *Service) ListPlans(ctx context.Context, kind models.PlanKind, sortKey string) ([]models.Planner, error) {
	plans, err := s.plans.List(ctx, kind, ParseSortKey(sortKey))
	if err != nil {
		return nil, fmt.Errorf("list %s plans: %w", kind, err)
	}
	return plans, nil
}

// BestPlans returns one representative per kind in the order TV, Wireless,
// Internet. A kind without plans leaves its slot nil.
func (s *Service) BestPlans(ctx context.Context) []models.Planner {
	best := make([]models.Planner, len(models.PlanKinds))
	for i, kind := range models.PlanKinds {
		plan, err := s.plans.First(ctx, kind)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Errorf("best %s plan: %v", kind, err)
			}
			continue
		}
		best[i] = plan
	}
	return best
}

// ServiceBySlug returns a registered service.
func (s *Service) ServiceBySlug(ctx context.Context, slug string) (*models.Service, error) {
	if _, err := s.PlanKindForService(slug); err != nil {
		return nil, err
	}

	service, err := s.services.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, slug)
		}
		return nil, fmt.Errorf("get service %q: %w", slug, err)
	}
	return service, nil
}

// PlanBySlugs resolves a plan from its URL segments.
func (s *Service) PlanBySlugs(ctx context.Context, serviceSlug, planSlug string) (models.Planner, error) {
	service, err := s.ServiceBySlug(ctx, serviceSlug)
	if err != nil {
		return nil, err
	}
	kind, _ := s.registry.Kind(serviceSlug)

	plan, err := s.plans.GetBySlug(ctx, kind, service.ID, planSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", ErrPlanNotFound, serviceSlug, planSlug)
		}
		return nil, fmt.Errorf("get plan %s/%s: %w", serviceSlug, planSlug, err)
	}
	return plan, nil
}

// ResolvePlan dereferences an order line.
func (s *Service) ResolvePlan(ctx context.Context, ref models.PlanRef) (models.Planner, error) {
	if !ref.Kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, ref)
	}

	plan, err := s.plans.GetByID(ctx, ref.Kind, ref.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, ref)
		}
		return nil, fmt.Errorf("resolve plan %s: %w", ref, err)
	}
	return plan, nil
}

// ServicePage is the data of one service catalog page.
type ServicePage struct {
	Service models.Service
	Kind    models.PlanKind
	Plans   []models.Planner
	Filter  string
	Sorts   []SortOption
}

// ServicePage assembles the catalog page of a service.
func (s *Service) ServicePage(ctx context.Context, slug, sortKey string) (*ServicePage, error) {
	service, err := s.ServiceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	kind, _ := s.registry.Kind(slug)

	plans, err := s.ListPlans(ctx, kind, sortKey)
	if err != nil {
		return nil, err
	}

	filter := ""
	if ParseSortKey(sortKey).Column != "" {
		filter = sortKey
	}

	return &ServicePage{
		Service: *service,
		Kind:    kind,
		Plans:   plans,
		Filter:  filter,
		Sorts:   SortOptions,
	}, nil
}

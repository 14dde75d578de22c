package repository

import (
	"context"
	"fmt"

	"github.com/shvarc/provider/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// planColumns are the columns a listing may be sorted by.
var planColumns = map[string]bool{
	"name":  true,
	"price": true,
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create inserts the plan into the table of its kind
func (r *planRepository) Create(ctx context.Context, plan models.Planner) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(plan).Error
}

// List returns every plan of a kind. Unknown sort columns fall back to
// primary key order.
func (r *planRepository) List(ctx context.Context, kind models.PlanKind, sort PlanSort) ([]models.Planner, error) {
	q := r.db.WithContext(ctx).Preload("Service")
	if planColumns[sort.Column] {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: sort.Column}, Desc: sort.Desc})
	}
	q = q.Order("id")

	switch kind {
	case models.PlanKindInternet:
		return findPlans[models.InternetPlan](q)
	case models.PlanKindWireless:
		return findPlans[models.WirelessPlan](q)
	case models.PlanKindTV:
		return findPlans[models.TVPlan](q)
	}
	return nil, unknownKind(kind)
}

// First returns the plan with the lowest primary key
func (r *planRepository) First(ctx context.Context, kind models.PlanKind) (models.Planner, error) {
	return r.first(r.db.WithContext(ctx), kind)
}

func (r *planRepository) GetByID(ctx context.Context, kind models.PlanKind, id uint) (models.Planner, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), kind)
}

// GetBySlug retrieves a plan by its slug inside one service
func (r *planRepository) GetBySlug(ctx context.Context, kind models.PlanKind, serviceID uint, slug string) (models.Planner, error) {
	return r.first(r.db.WithContext(ctx).Where("service_id = ? AND slug = ?", serviceID, slug), kind)
}

// Update writes every column of the plan, zero values included. The
// service association is left alone.
func (r *planRepository) Update(ctx context.Context, plan models.Planner) error {
	return r.db.WithContext(ctx).Model(plan).Select("*").Omit(clause.Associations).Updates(plan).Error
}

// Delete removes a plan from the table of its kind
func (r *planRepository) Delete(ctx context.Context, kind models.PlanKind, id uint) error {
	plan := models.NewPlan(kind)
	if plan == nil {
		return unknownKind(kind)
	}
	return r.db.WithContext(ctx).Delete(plan, id).Error
}

// Count returns the number of plans across all tables
func (r *planRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	for _, kind := range models.PlanKinds {
		var count int64
		if err := r.db.WithContext(ctx).Model(models.NewPlan(kind)).Count(&count).Error; err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (r *planRepository) first(q *gorm.DB, kind models.PlanKind) (models.Planner, error) {
	q = q.Preload("Service")
	switch kind {
	case models.PlanKindInternet:
		return firstPlan[models.InternetPlan](q)
	case models.PlanKindWireless:
		return firstPlan[models.WirelessPlan](q)
	case models.PlanKindTV:
		return firstPlan[models.TVPlan](q)
	}
	return nil, unknownKind(kind)
}

func findPlans[T any, P interface {
	*T
	models.Planner
}](q *gorm.DB) ([]models.Planner, error) {
	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	plans := make([]models.Planner, len(rows))
	for i := range rows {
		plans[i] = P(&rows[i])
	}
	return plans, nil
}

func firstPlan[T any, P interface {
	*T
	models.Planner
}](q *gorm.DB) (models.Planner, error) {
	var row T
	if err := q.First(&row).Error; err != nil {
		return nil, err
	}
	return P(&row), nil
}

func unknownKind(kind models.PlanKind) error {
	return fmt.Errorf("unknown plan kind %q", kind)
}

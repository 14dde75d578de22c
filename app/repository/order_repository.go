package repository

import (
	"context"

	"github.com/shvarc/provider/app/models"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateList creates the cart of a customer
func (r *orderRepository) CreateList(ctx context.Context, list *models.OrderedPlansList) error {
	return r.db.WithContext(ctx).Omit("Plans").Create(list).Error
}

func (r *orderRepository) GetListByOwner(ctx context.Context, ownerID uint) (*models.OrderedPlansList, error) {
	var list models.OrderedPlansList
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Create inserts an order line. A second line for the same owner and
// service violates the owner_service index.
func (r *orderRepository) Create(ctx context.Context, line *models.OrderedPlan) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// ListByOwner returns the order lines of a customer, oldest first
func (r *orderRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.OrderedPlan, error) {
	var lines []models.OrderedPlan
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&lines).Error
	return lines, err
}

// FindLine retrieves the line of a customer that points at ref
func (r *orderRepository) FindLine(ctx context.Context, ownerID uint, ref models.PlanRef) (*models.OrderedPlan, error) {
	var line models.OrderedPlan
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND plan_kind = ? AND plan_id = ?", ownerID, ref.Kind, ref.ID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// ExistsForService reports whether the customer holds any line in the service
func (r *orderRepository) ExistsForService(ctx context.Context, ownerID, serviceID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderedPlan{}).
		Where("owner_id = ? AND service_id = ?", ownerID, serviceID).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.OrderedPlan{}, id).Error
}

// List returns every order line, newest first
func (r *orderRepository) List(ctx context.Context) ([]models.OrderedPlan, error) {
	var lines []models.OrderedPlan
	err := r.db.WithContext(ctx).Order("id DESC").Find(&lines).Error
	return lines, err
}

// CountByPlan returns the number of lines pointing at ref
func (r *orderRepository) CountByPlan(ctx context.Context, ref models.PlanRef) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderedPlan{}).
		Where("plan_kind = ? AND plan_id = ?", ref.Kind, ref.ID).
		Count(&count).Error
	return count, err
}

// Count returns the total number of order lines
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderedPlan{}).Count(&count).Error
	return count, err
}

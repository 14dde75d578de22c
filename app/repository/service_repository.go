package repository

import (
	"context"

	"github.com/shvarc/provider/app/models"
	"gorm.io/gorm"
)

type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository creates a new service repository instance
func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// GetBySlug retrieves a service by its URL slug
func (r *serviceRepository) GetBySlug(ctx context.Context, slug string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&service).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// List returns all services in primary key order
func (r *serviceRepository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).Order("id").Find(&services).Error
	return services, err
}

// Update writes name and slug of the service
func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", service.ID).Updates(map[string]interface{}{
		"name": service.Name,
		"slug": service.Slug,
	}).Error
}

func (r *serviceRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Service{}, id).Error
}

package repository

import (
	"context"

	"github.com/shvarc/provider/app/models"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository instance
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Omit("User").Create(customer).Error
}

// GetByID retrieves a customer with its user
func (r *customerRepository) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Preload("User").First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByUserID retrieves the customer profile belonging to a user
func (r *customerRepository) GetByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateProfile overwrites phone and address. Zero values are written too.
func (r *customerRepository) UpdateProfile(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", customer.ID).Updates(map[string]interface{}{
		"phone":         customer.Phone,
		"city":          customer.City,
		"street":        customer.Street,
		"house_num":     customer.HouseNum,
		"apartment_num": customer.ApartmentNum,
	}).Error
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

package models

// Service is one product line (internet, wireless, tv). Slug is the stable
// external key used in URLs and in the catalog registry.
type Service struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required,max=100"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// URL returns the catalog page of the service.
func (s Service) URL() string {
	return "/services/" + s.Slug
}

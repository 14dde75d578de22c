package models

import "time"

// Customer is the account profile of a registered user. Its address and
// phone prefill the order form and are overwritten on every order.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	City         string    `gorm:"type:varchar(255)" json:"city"`
	Street       string    `gorm:"type:varchar(255)" json:"street"`
	HouseNum     int       `json:"house_num"`
	ApartmentNum int       `json:"apartment_num"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// Address renders city, street and house number on one line.
func (c *Customer) Address() string {
	if c.City == "" && c.Street == "" {
		return ""
	}
	addr := c.City + " " + c.Street
	if c.HouseNum > 0 {
		addr += " " + itoa(c.HouseNum)
	}
	if c.ApartmentNum > 0 {
		addr += ", apt. " + itoa(c.ApartmentNum)
	}
	return addr
}

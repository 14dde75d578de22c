package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"
)

// User is the login identity. Contact and address data live on Customer.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username" validate:"required,min=3,max=150"`
	FirstName   string     `gorm:"type:varchar(150)" json:"first_name" validate:"max=150"`
	LastName    string     `gorm:"type:varchar(150)" json:"last_name" validate:"max=150"`
	Email       string     `gorm:"type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Password    string     `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role        string     `gorm:"type:varchar(50);not null;default:'user'" json:"role" validate:"oneof=user admin"`
	LastLoginAt *time.Time `gorm:"default:null" json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(username, firstName, lastName, email, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:  strings.TrimSpace(username),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
		Password:  pw,
		Role:      ROLE_USER,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

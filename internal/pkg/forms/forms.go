package forms

import (
	"strconv"
	"strings"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/ordering"
)

// OrderForm is the order submission form. House and apartment numbers are
// kept as text so the submitted value can be redisplayed when invalid.
type OrderForm struct {
	Plan         string `form:"-"`
	FirstName    string `form:"first_name" validate:"required,max=150"`
	LastName     string `form:"last_name" validate:"required,max=150"`
	Email        string `form:"email" validate:"required,email,max=200"`
	Phone        string `form:"phone" validate:"required,max=50"`
	City         string `form:"city" validate:"required,max=255"`
	Street       string `form:"street" validate:"required,max=255"`
	HouseNum     string `form:"house_num" validate:"required,number,max=9"`
	ApartmentNum string `form:"apartment_num" validate:"required,number,max=9"`
}

// NewOrderForm prefills the form from the user and the stored profile.
func NewOrderForm(plan models.Planner, customer *models.Customer) OrderForm {
	f := OrderForm{Plan: plan.Base().Name}
	if customer == nil {
		return f
	}

	f.FirstName = customer.User.FirstName
	f.LastName = customer.User.LastName
	f.Email = customer.User.Email
	f.Phone = customer.Phone
	f.City = customer.City
	f.Street = customer.Street
	if customer.HouseNum > 0 {
		f.HouseNum = strconv.Itoa(customer.HouseNum)
	}
	if customer.ApartmentNum > 0 {
		f.ApartmentNum = strconv.Itoa(customer.ApartmentNum)
	}
	return f
}

// Clean trims surrounding whitespace from every text field.
func (f *OrderForm) Clean() {
	for _, s := range []*string{&f.FirstName, &f.LastName, &f.Email, &f.Phone, &f.City, &f.Street, &f.HouseNum, &f.ApartmentNum} {
		*s = strings.TrimSpace(*s)
	}
}

// Submission converts a validated form.
func (f OrderForm) Submission() ordering.Submission {
	house, _ := strconv.Atoi(f.HouseNum)
	apartment, _ := strconv.Atoi(f.ApartmentNum)

	return ordering.Submission{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Profile: ordering.Profile{
			Phone:        f.Phone,
			City:         f.City,
			Street:       f.Street,
			HouseNum:     house,
			ApartmentNum: apartment,
		},
	}
}

// AccountForm edits the name and email of the logged-in user.
type AccountForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"required,email,max=200"`
}

func NewAccountForm(user *models.User) AccountForm {
	return AccountForm{FirstName: user.FirstName, LastName: user.LastName, Email: user.Email}
}

func (f *AccountForm) Clean() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
}

// RegisterForm creates a new account.
type RegisterForm struct {
	Username  string `form:"username" validate:"required,min=3,max=150"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"required,email,max=200"`
	Password  string `form:"password" validate:"required,min=6,bcrypt"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

func (f *RegisterForm) Clean() {
	f.Username = strings.TrimSpace(f.Username)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate *validator.Validate
	once     sync.Once

	slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// decimal(9,2)
	maxPrice = decimal.New(1, 7)
)

// GetValidator returns the shared validator. Field errors are reported
// under the form tag name of the field.
func GetValidator() *validator.Validate {
	once.Do(initValidator)
	return validate
}

func initValidator() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	// bcrypt rejects longer input
	_ = validate.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 72
	})
	_ = validate.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative() && d.Exponent() >= -2 && d.LessThan(maxPrice)
	})
}

// Errors maps a form field name to its message.
type Errors map[string]string

func (e Errors) Get(field string) string {
	return e[field]
}

// Validate checks form and returns nil when it is valid.
func Validate(form interface{}) Errors {
	err := GetValidator().Struct(form)
	if err == nil {
		return nil
	}
	return ParseErrors(err)
}

// ParseErrors turns validator errors into per-field messages.
func ParseErrors(err error) Errors {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Errors{"__all__": "Unknown error"}
	}

	errs := make(Errors, len(validationErrors))
	for _, e := range validationErrors {
		if _, seen := errs[e.Field()]; !seen {
			errs[e.Field()] = prettyError(e)
		}
	}
	return errs
}

func prettyError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "number":
		return "Enter a whole number."
	case "eqfield":
		return "The two password fields didn't match."
	case "bcrypt":
		return "Ensure this password has at most 72 bytes."
	case "slug":
		return "Use lowercase letters, digits and hyphens only."
	case "price":
		return "Enter a non-negative amount with at most two decimal places."
	case "oneof":
		return "Select one of: " + e.Param() + "."
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", e.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", e.Param())
	default:
		return e.Error()
	}
}

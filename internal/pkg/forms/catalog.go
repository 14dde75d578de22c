package forms

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/shvarc/provider/app/models"
)

// ServiceForm edits a catalog service.
type ServiceForm struct {
	Name string `form:"name" validate:"required,max=255"`
	Slug string `form:"slug" validate:"required,max=100,slug"`
}

func NewServiceForm(service *models.Service) ServiceForm {
	return ServiceForm{Name: service.Name, Slug: service.Slug}
}

func (f *ServiceForm) Clean() {
	f.Name = strings.TrimSpace(f.Name)
	f.Slug = strings.TrimSpace(f.Slug)
}

// Apply copies a validated form onto service.
func (f ServiceForm) Apply(service *models.Service) {
	service.Name = f.Name
	service.Slug = f.Slug
}

// PlanForm edits a plan of any kind. Only the fields of Kind are checked
// and applied; numbers are kept as text for redisplay.
type PlanForm struct {
	Kind          models.PlanKind `form:"-"`
	Name          string          `form:"name" validate:"required,max=255"`
	Slug          string          `form:"slug" validate:"required,max=100,slug"`
	Price         string          `form:"price" validate:"required,price"`
	DaysToConnect string          `form:"days_to_connect" validate:"required,number,max=4"`
	Description   string          `form:"description"`

	Speed          string `form:"speed"`
	ConnectionType string `form:"connection_type"`

	DataAmount          string `form:"data_amount"`
	InternetType        string `form:"internet_type"`
	MinutesOut          string `form:"minutes_out"`
	MinutesAbroad       string `form:"minutes_abroad"`
	SMSAmount           string `form:"sms_amount"`
	ConnectWithPassport bool   `form:"connect_with_passport"`

	ChannelsAmount         string `form:"channels_amount"`
	Quality                string `form:"quality"`
	ParentControlAvailable bool   `form:"parent_control_available"`
}

type fieldRule struct {
	name  string
	value string
	rule  string
}

const countRule = "required,number,max=9"

func (f PlanForm) kindRules() []fieldRule {
	switch f.Kind {
	case models.PlanKindInternet:
		return []fieldRule{
			{name: "speed", value: f.Speed, rule: countRule},
			{name: "connection_type", value: f.ConnectionType, rule: "max=100"},
		}
	case models.PlanKindWireless:
		return []fieldRule{
			{name: "data_amount", value: f.DataAmount, rule: countRule},
			{name: "internet_type", value: f.InternetType, rule: "required,oneof=3G 4G 5G"},
			{name: "minutes_out", value: f.MinutesOut, rule: countRule},
			{name: "minutes_abroad", value: f.MinutesAbroad, rule: "omitempty,number,max=9"},
			{name: "sms_amount", value: f.SMSAmount, rule: countRule},
		}
	case models.PlanKindTV:
		return []fieldRule{
			{name: "channels_amount", value: f.ChannelsAmount, rule: countRule},
			{name: "quality", value: f.Quality, rule: "max=20"},
		}
	}
	return nil
}

// NewPlanForm prefills the form from plan.
func NewPlanForm(plan models.Planner) PlanForm {
	b := plan.Base()
	f := PlanForm{
		Kind:          plan.Kind(),
		Name:          b.Name,
		Slug:          b.Slug,
		Price:         b.Price.StringFixed(2),
		DaysToConnect: strconv.Itoa(b.DaysToConnect),
		Description:   b.Description,
	}

	switch p := plan.(type) {
	case *models.InternetPlan:
		f.Speed = strconv.Itoa(p.Speed)
		f.ConnectionType = p.ConnectionType
	case *models.WirelessPlan:
		f.DataAmount = strconv.Itoa(p.DataAmount)
		f.InternetType = p.InternetType
		f.MinutesOut = strconv.Itoa(p.MinutesOut)
		f.MinutesAbroad = strconv.Itoa(p.MinutesAbroad)
		f.SMSAmount = strconv.Itoa(p.SMSAmount)
		f.ConnectWithPassport = p.ConnectWithPassport
	case *models.TVPlan:
		f.ChannelsAmount = strconv.Itoa(p.ChannelsAmount)
		f.Quality = p.Quality
		f.ParentControlAvailable = p.ParentControlAvailable
	}
	return f
}

// EmptyPlanForm is the create form of a kind.
func EmptyPlanForm(kind models.PlanKind) PlanForm {
	f := PlanForm{Kind: kind, DaysToConnect: "3"}
	if kind == models.PlanKindWireless {
		f.InternetType = models.InternetType4G
	}
	return f
}

// Clean trims surrounding whitespace from every text field.
func (f *PlanForm) Clean() {
	for _, s := range []*string{
		&f.Name, &f.Slug, &f.Price, &f.DaysToConnect, &f.Description,
		&f.Speed, &f.ConnectionType,
		&f.DataAmount, &f.InternetType, &f.MinutesOut, &f.MinutesAbroad, &f.SMSAmount,
		&f.ChannelsAmount, &f.Quality,
	} {
		*s = strings.TrimSpace(*s)
	}
}

// Validate checks the shared fields and the fields of the form's kind.
func (f PlanForm) Validate() Errors {
	errs := Validate(f)
	for _, r := range f.kindRules() {
		if _, seen := errs[r.name]; seen {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if err := GetValidator().Var(r.value, r.rule); errors.As(err, &fieldErrs) {
			if errs == nil {
				errs = Errors{}
			}
			errs[r.name] = prettyError(fieldErrs[0])
		}
	}
	return errs
}

// Apply copies a validated form onto plan, which must be of the form's kind.
func (f PlanForm) Apply(plan models.Planner) {
	b := plan.Base()
	b.Name = f.Name
	b.Slug = f.Slug
	b.Price, _ = decimal.NewFromString(f.Price)
	b.DaysToConnect = atoi(f.DaysToConnect)
	b.Description = f.Description

	switch p := plan.(type) {
	case *models.InternetPlan:
		p.Speed = atoi(f.Speed)
		p.ConnectionType = f.ConnectionType
	case *models.WirelessPlan:
		p.DataAmount = atoi(f.DataAmount)
		p.InternetType = f.InternetType
		p.MinutesOut = atoi(f.MinutesOut)
		p.MinutesAbroad = atoi(f.MinutesAbroad)
		p.SMSAmount = atoi(f.SMSAmount)
		p.ConnectWithPassport = f.ConnectWithPassport
	case *models.TVPlan:
		p.ChannelsAmount = atoi(f.ChannelsAmount)
		p.Quality = f.Quality
		p.ParentControlAvailable = f.ParentControlAvailable
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

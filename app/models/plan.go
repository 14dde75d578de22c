package models

import (
	"github.com/shopspring/decimal"
)

// PlanKind names the catalog table a plan lives in.
type PlanKind string

const (
	PlanKindInternet PlanKind = "internet"
	PlanKindWireless PlanKind = "wireless"
	PlanKindTV       PlanKind = "tv"
)

// PlanKinds lists every plan kind in homepage display order.
var PlanKinds = []PlanKind{PlanKindTV, PlanKindWireless, PlanKindInternet}

// Valid reports whether k is one of the known plan kinds.
func (k PlanKind) Valid() bool {
	switch k {
	case PlanKindInternet, PlanKindWireless, PlanKindTV:
		return true
	default:
		return false
	}
}

// Wireless internet types
const (
	InternetType3G = "3G"
	InternetType4G = "4G"
	InternetType5G = "5G"
)

// Plan holds the columns shared by every plan table. It is embedded into
// the concrete variants; there is no plan table of its own.
type Plan struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,max=255"`
	ServiceID     uint            `gorm:"not null;uniqueIndex:,composite:service_slug" json:"-"`
	Service       Service         `gorm:"foreignKey:ServiceID" json:"service"`
	Slug          string          `gorm:"type:varchar(100);not null;uniqueIndex:,composite:service_slug" json:"slug" validate:"required,max=100"`
	Price         decimal.Decimal `gorm:"type:decimal(9,2);not null" json:"price"`
	DaysToConnect int             `gorm:"not null" json:"days_to_connect" validate:"min=0"`
	Description   string          `gorm:"type:text" json:"description"`
}

// Planner is implemented by every concrete plan variant.
type Planner interface {
	Base() *Plan
	Kind() PlanKind
}

// InternetPlan is a home internet offering.
type InternetPlan struct {
	Plan
	Speed          int    `gorm:"not null" json:"speed"`
	ConnectionType string `gorm:"type:varchar(100)" json:"connection_type"`
}

func (InternetPlan) TableName() string { return "internet_plans" }
func (p *InternetPlan) Base() *Plan    { return &p.Plan }
func (*InternetPlan) Kind() PlanKind   { return PlanKindInternet }

// WirelessPlan is a mobile offering.
type WirelessPlan struct {
	Plan
	DataAmount          int    `gorm:"not null" json:"data_amount"`
	InternetType        string `gorm:"type:varchar(2);not null;default:'4G'" json:"internet_type" validate:"oneof=3G 4G 5G"`
	MinutesOut          int    `gorm:"not null" json:"minutes_out"`
	MinutesAbroad       int    `gorm:"not null;default:0" json:"minutes_abroad"`
	SMSAmount           int    `gorm:"column:sms_amount;not null" json:"sms_amount"`
	ConnectWithPassport bool   `gorm:"not null" json:"connect_with_passport"`
}

func (WirelessPlan) TableName() string { return "wireless_plans" }
func (p *WirelessPlan) Base() *Plan    { return &p.Plan }
func (*WirelessPlan) Kind() PlanKind   { return PlanKindWireless }

// TVPlan is a television offering.
type TVPlan struct {
	Plan
	ChannelsAmount         int    `gorm:"not null" json:"channels_amount"`
	Quality                string `gorm:"type:varchar(20)" json:"quality"`
	ParentControlAvailable bool   `gorm:"not null" json:"parent_control_available"`
}

func (TVPlan) TableName() string { return "tv_plans" }
func (p *TVPlan) Base() *Plan    { return &p.Plan }
func (*TVPlan) Kind() PlanKind   { return PlanKindTV }

// NewPlan returns an empty plan value of the given kind, or nil for an
// unknown kind.
func NewPlan(kind PlanKind) Planner {
	switch kind {
	case PlanKindInternet:
		return &InternetPlan{}
	case PlanKindWireless:
		return &WirelessPlan{}
	case PlanKindTV:
		return &TVPlan{}
	default:
		return nil
	}
}

// RefOf builds the order line reference pointing at p.
func RefOf(p Planner) PlanRef {
	return PlanRef{Kind: p.Kind(), ID: p.Base().ID}
}

// PlanURL is the detail page of p.
func PlanURL(p Planner) string {
	b := p.Base()
	return "/plans/" + b.Service.Slug + "/" + b.Slug
}

// OrderURL is the order submission page of p.
func OrderURL(p Planner) string {
	b := p.Base()
	return "/order-submission/" + b.Service.Slug + "/" + b.Slug
}

// CancelURL cancels the customer's order line for p.
func CancelURL(p Planner) string {
	b := p.Base()
	return "/cancel-plan/" + b.Service.Slug + "/" + b.Slug
}

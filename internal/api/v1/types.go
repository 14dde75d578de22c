package apiv1

import (
	"github.com/shvarc/provider/app/models"
)

// Pong defines model for Pong.
type Pong struct {
	Ping string `json:"ping"`
}

// Error defines model for Error.
type Error struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Service defines model for Service.
type Service struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ServiceRef is the service as nested into a plan.
type ServiceRef struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Plan holds the fields every plan variant shares.
type Plan struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Service       ServiceRef `json:"service"`
	Slug          string     `json:"slug"`
	Price         string     `json:"price"`
	DaysToConnect int        `json:"days_to_connect"`
	Description   string     `json:"description"`
}

// InternetPlan defines model for InternetPlan.
type InternetPlan struct {
	Plan
	Speed          int    `json:"speed"`
	ConnectionType string `json:"connection_type"`
}

// WirelessPlan defines model for WirelessPlan.
type WirelessPlan struct {
	Plan
	DataAmount          int    `json:"data_amount"`
	InternetType        string `json:"internet_type"`
	MinutesOut          int    `json:"minutes_out"`
	MinutesAbroad       int    `json:"minutes_abroad"`
	SMSAmount           int    `json:"sms_amount"`
	ConnectWithPassport bool   `json:"connect_with_passport"`
}

// TVPlan defines model for TVPlan.
type TVPlan struct {
	Plan
	ChannelsAmount         int    `json:"channels_amount"`
	Quality                string `json:"quality"`
	ParentControlAvailable bool   `json:"parent_control_available"`
}

func newService(s models.Service) Service {
	return Service{ID: s.ID, Name: s.Name, Slug: s.Slug}
}

func newPlan(b *models.Plan) Plan {
	return Plan{
		ID:            b.ID,
		Name:          b.Name,
		Service:       ServiceRef{Name: b.Service.Name, Slug: b.Service.Slug},
		Slug:          b.Slug,
		Price:         b.Price.StringFixed(2),
		DaysToConnect: b.DaysToConnect,
		Description:   b.Description,
	}
}

// planResponse maps a stored plan to its API shape.
func planResponse(p models.Planner) interface{} {
	switch v := p.(type) {
	case *models.InternetPlan:
		return InternetPlan{Plan: newPlan(&v.Plan), Speed: v.Speed, ConnectionType: v.ConnectionType}
	case *models.WirelessPlan:
		return WirelessPlan{
			Plan:                newPlan(&v.Plan),
			DataAmount:          v.DataAmount,
			InternetType:        v.InternetType,
			MinutesOut:          v.MinutesOut,
			MinutesAbroad:       v.MinutesAbroad,
			SMSAmount:           v.SMSAmount,
			ConnectWithPassport: v.ConnectWithPassport,
		}
	case *models.TVPlan:
		return TVPlan{
			Plan:                   newPlan(&v.Plan),
			ChannelsAmount:         v.ChannelsAmount,
			Quality:                v.Quality,
			ParentControlAvailable: v.ParentControlAvailable,
		}
	default:
		return newPlan(p.Base())
	}
}

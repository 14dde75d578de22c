package viewmodel

import (
	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/ordering"
)

// OrderButton is the order affordance of a plan. An empty Href renders a
// disabled button.
type OrderButton struct {
	Label     string
	Href      string
	CancelURL string
}

// NewOrderButton picks the affordance for the visitor: anonymous users are
// sent to log in, holders of the plan can cancel it, holders of another
// plan of the service are sent to their account.
func NewOrderButton(plan models.Planner, loggedIn bool, state ordering.PlanState) OrderButton {
	switch {
	case !loggedIn:
		return OrderButton{Label: "Order", Href: constants.AnonymOrderRoute}
	case state.IsOrdered:
		return OrderButton{Label: "Already ordered", CancelURL: models.CancelURL(plan)}
	case state.ServiceInUse:
		return OrderButton{Label: "Service in use", Href: constants.ServiceInUseRoute}
	default:
		return OrderButton{Label: "Order", Href: models.OrderURL(plan)}
	}
}

// PlanCard is a plan as listed on catalog pages.
type PlanCard struct {
	Kind          models.PlanKind
	Name          string
	ServiceName   string
	Description   string
	Price         string
	DaysToConnect int
	URL           string
	Details       []Detail
}

// Detail is one variant specific line of a plan card.
type Detail struct {
	Label string
	Value interface{}
}

// NewPlanCard flattens a plan for the templates. A nil plan gives nil.
func NewPlanCard(plan models.Planner) *PlanCard {
	if plan == nil {
		return nil
	}
	b := plan.Base()
	return &PlanCard{
		Kind:          plan.Kind(),
		Name:          b.Name,
		ServiceName:   b.Service.Name,
		Description:   b.Description,
		Price:         b.Price.StringFixed(2),
		DaysToConnect: b.DaysToConnect,
		URL:           models.PlanURL(plan),
		Details:       details(plan),
	}
}

// NewPlanCards maps NewPlanCard over plans, keeping nil slots.
func NewPlanCards(plans []models.Planner) []*PlanCard {
	cards := make([]*PlanCard, len(plans))
	for i, p := range plans {
		cards[i] = NewPlanCard(p)
	}
	return cards
}

func details(plan models.Planner) []Detail {
	switch p := plan.(type) {
	case *models.InternetPlan:
		return []Detail{
			{Label: "Speed, Mbit/s", Value: p.Speed},
			{Label: "Connection", Value: p.ConnectionType},
		}
	case *models.WirelessPlan:
		return []Detail{
			{Label: "Data, GB", Value: p.DataAmount},
			{Label: "Network", Value: p.InternetType},
			{Label: "Minutes", Value: p.MinutesOut},
			{Label: "Minutes abroad", Value: p.MinutesAbroad},
			{Label: "SMS", Value: p.SMSAmount},
			{Label: "Passport required", Value: yesNo(p.ConnectWithPassport)},
		}
	case *models.TVPlan:
		return []Detail{
			{Label: "Channels", Value: p.ChannelsAmount},
			{Label: "Quality", Value: p.Quality},
			{Label: "Parental control", Value: yesNo(p.ParentControlAvailable)},
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

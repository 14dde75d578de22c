package viewmodel

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlan() *models.InternetPlan {
	return &models.InternetPlan{
		Plan: models.Plan{
			Name:    "Net 5",
			Slug:    "net5",
			Price:   decimal.RequireFromString("150.5"),
			Service: models.Service{Name: "Internet", Slug: "internet"},
		},
		Speed:          100,
		ConnectionType: "fiber",
	}
}

func TestNewOrderButton(t *testing.T) {
	plan := testPlan()

	tests := []struct {
		name     string
		loggedIn bool
		state    ordering.PlanState
		want     OrderButton
	}{
		{name: "anonymous", want: OrderButton{Label: "Order", Href: "/anonym-order"}},
		{name: "free", loggedIn: true, want: OrderButton{Label: "Order", Href: "/order-submission/internet/net5"}},
		{
			name:     "service in use",
			loggedIn: true,
			state:    ordering.PlanState{ServiceInUse: true},
			want:     OrderButton{Label: "Service in use", Href: "/service-in-use"},
		},
		{
			name:     "already ordered",
			loggedIn: true,
			state:    ordering.PlanState{ServiceInUse: true, IsOrdered: true},
			want:     OrderButton{Label: "Already ordered", CancelURL: "/cancel-plan/internet/net5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewOrderButton(plan, tt.loggedIn, tt.state))
		})
	}
}

func TestNewPlanCard(t *testing.T) {
	card := NewPlanCard(testPlan())
	require.NotNil(t, card)

	assert.Equal(t, "150.50", card.Price)
	assert.Equal(t, "/plans/internet/net5", card.URL)
	assert.Equal(t, "Internet", card.ServiceName)
	assert.Equal(t, Detail{Label: "Speed, Mbit/s", Value: 100}, card.Details[0])

	assert.Nil(t, NewPlanCard(nil))
	cards := NewPlanCards([]models.Planner{nil, testPlan()})
	assert.Nil(t, cards[0])
	assert.NotNil(t, cards[1])
}

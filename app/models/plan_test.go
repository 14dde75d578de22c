package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanKindValid(t *testing.T) {
	for _, kind := range PlanKinds {
		assert.True(t, kind.Valid(), "kind %q", kind)
	}
	assert.False(t, PlanKind("radio").Valid())
	assert.False(t, PlanKind("").Valid())
}

func TestNewPlan(t *testing.T) {
	tests := []struct {
		kind PlanKind
		want Planner
	}{
		{kind: PlanKindInternet, want: &InternetPlan{}},
		{kind: PlanKindWireless, want: &WirelessPlan{}},
		{kind: PlanKindTV, want: &TVPlan{}},
	}

	for _, tt := range tests {
		got := NewPlan(tt.kind)
		require.NotNil(t, got)
		assert.IsType(t, tt.want, got)
		assert.Equal(t, tt.kind, got.Kind())
	}
	assert.Nil(t, NewPlan("radio"))
}

func TestRefOfAndURLs(t *testing.T) {
	plan := &InternetPlan{Plan: Plan{
		ID:      7,
		Slug:    "net5",
		Service: Service{Name: "Internet", Slug: "internet"},
	}}

	ref := RefOf(plan)
	assert.Equal(t, PlanRef{Kind: PlanKindInternet, ID: 7}, ref)
	assert.Equal(t, "internet:7", ref.String())
	assert.False(t, ref.IsZero())
	assert.True(t, PlanRef{}.IsZero())

	assert.Equal(t, "/plans/internet/net5", PlanURL(plan))
	assert.Equal(t, "/order-submission/internet/net5", OrderURL(plan))
	assert.Equal(t, "/cancel-plan/internet/net5", CancelURL(plan))
}

func TestRefOfDistinguishesKinds(t *testing.T) {
	internet := &InternetPlan{Plan: Plan{ID: 1}}
	tv := &TVPlan{Plan: Plan{ID: 1}}

	assert.NotEqual(t, RefOf(internet), RefOf(tv))
}

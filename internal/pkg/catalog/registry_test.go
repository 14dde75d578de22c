package catalog

import (
	"testing"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/stretchr/testify/assert"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		key  string
		want repository.PlanSort
	}{
		{key: "name", want: repository.PlanSort{Column: "name"}},
		{key: "-name", want: repository.PlanSort{Column: "name", Desc: true}},
		{key: "price", want: repository.PlanSort{Column: "price"}},
		{key: "-price", want: repository.PlanSort{Column: "price", Desc: true}},
		{key: "", want: repository.PlanSort{}},
		{key: "speed", want: repository.PlanSort{}},
		{key: "--price", want: repository.PlanSort{}},
		{key: "price; DROP TABLE tv_plans", want: repository.PlanSort{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSortKey(tt.key))
		})
	}
}

func TestRegistryKind(t *testing.T) {
	r := DefaultRegistry()

	kind, ok := r.Kind("wireless")
	assert.True(t, ok)
	assert.Equal(t, models.PlanKindWireless, kind)

	_, ok = r.Kind("radio")
	assert.False(t, ok)
}

func TestRegistrySlug(t *testing.T) {
	r := DefaultRegistry()

	slug, ok := r.Slug(models.PlanKindTV)
	assert.True(t, ok)
	assert.Equal(t, "tv", slug)

	_, ok = Registry{"internet": models.PlanKindInternet}.Slug(models.PlanKindTV)
	assert.False(t, ok)

	assert.Equal(t, []string{"internet", "tv", "wireless"}, r.Slugs())
}

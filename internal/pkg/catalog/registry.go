package catalog

import (
	"sort"
	"strings"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
)

// Registry maps a service slug to the plan table holding its plans.
type Registry map[string]models.PlanKind

// DefaultRegistry knows the three seeded services.
func DefaultRegistry() Registry {
	return Registry{
		"internet": models.PlanKindInternet,
		"wireless": models.PlanKindWireless,
		"tv":       models.PlanKindTV,
	}
}

// Kind returns the plan kind for a service slug.
func (r Registry) Kind(slug string) (models.PlanKind, bool) {
	kind, ok := r[slug]
	return kind, ok
}

// Slug returns the service slug whose plans live in the table of kind.
func (r Registry) Slug(kind models.PlanKind) (string, bool) {
	for slug, k := range r {
		if k == kind {
			return slug, true
		}
	}
	return "", false
}

// Slugs lists the registered service slugs in alphabetical order.
func (r Registry) Slugs() []string {
	slugs := make([]string, 0, len(r))
	for slug := range r {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// SortOption is one entry of the catalog sort menu.
type SortOption struct {
	Key   string
	Label string
}

// SortOptions lists the accepted values of the filter query parameter.
var SortOptions = []SortOption{
	{Key: "name", Label: "Name A-Z"},
	{Key: "-name", Label: "Name Z-A"},
	{Key: "price", Label: "Price: low to high"},
	{Key: "-price", Label: "Price: high to low"},
}

// ParseSortKey turns name, -name, price or -price into a listing order.
// Anything else yields the zero PlanSort, which is primary key order.
func ParseSortKey(key string) repository.PlanSort {
	desc := strings.HasPrefix(key, "-")
	switch column := strings.TrimPrefix(key, "-"); column {
	case "name", "price":
		return repository.PlanSort{Column: column, Desc: desc}
	}
	return repository.PlanSort{}
}

package statistics

import (
	"context"
	"log"
	"strconv"
	"time"
)

const (
	CacheKeyCustomers = "statistics:customers:total"
	CacheKeyPlans     = "statistics:plans:total"
	CacheKeyOrders    = "statistics:orders:total"
	CacheExpiration   = 30 * time.Minute
)

// StatisticsData holds the counters shown on the homepage
type StatisticsData struct {
	TotalCustomers int
	TotalPlans     int
	TotalOrders    int
}

// Cache is the subset of cache.Store the counters need.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Counter counts rows of one table.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Service reads counters from the cache and falls back to the database.
type Service struct {
	cache     Cache
	customers Counter
	plans     Counter
	orders    Counter
}

func NewService(cache Cache, customers, plans, orders Counter) *Service {
	return &Service{cache: cache, customers: customers, plans: plans, orders: orders}
}

// Get returns the current statistics. Failing counters read as zero.
func (s *Service) Get(ctx context.Context) StatisticsData {
	return StatisticsData{
		TotalCustomers: s.count(ctx, CacheKeyCustomers, s.customers),
		TotalPlans:     s.count(ctx, CacheKeyPlans, s.plans),
		TotalOrders:    s.count(ctx, CacheKeyOrders, s.orders),
	}
}

// InvalidateOrders drops the cached order counter after an order change.
func (s *Service) InvalidateOrders(ctx context.Context) {
	s.invalidate(ctx, CacheKeyOrders)
}

// InvalidateCustomers drops the cached customer counter after a registration.
func (s *Service) InvalidateCustomers(ctx context.Context) {
	s.invalidate(ctx, CacheKeyCustomers)
}

// InvalidatePlans drops the cached plan counter after a catalog change.
func (s *Service) InvalidatePlans(ctx context.Context) {
	s.invalidate(ctx, CacheKeyPlans)
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		log.Printf("Error invalidating %s: %v", key, err)
	}
}

func (s *Service) count(ctx context.Context, key string, counter Counter) int {
	if val, err := s.cache.Get(ctx, key); err == nil {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return int(n)
		}
	}

	n, err := counter.Count(ctx)
	if err != nil {
		log.Printf("Error counting %s: %v", key, err)
		return 0
	}

	if err := s.cache.Set(ctx, key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}

	return int(n)
}

// Package testdb opens migrated SQLite databases and fixtures for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a migrated database in a per-test temp file.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_fk=1"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Service returns one of the seeded services.
func Service(t testing.TB, db *gorm.DB, slug string) models.Service {
	t.Helper()

	s, err := repository.NewServiceRepository(db).GetBySlug(context.Background(), slug)
	require.NoError(t, err)
	return *s
}

// CreatePlan stores plan under the seeded service matching its kind and
// attaches the service to it.
func CreatePlan(t testing.TB, db *gorm.DB, plan models.Planner) models.Planner {
	t.Helper()

	svc := Service(t, db, string(plan.Kind()))
	base := plan.Base()
	base.ServiceID = svc.ID
	if base.Name == "" {
		base.Name = base.Slug
	}
	require.NoError(t, repository.NewPlanRepository(db).Create(context.Background(), plan))
	base.Service = svc
	return plan
}

func CreateInternetPlan(t testing.TB, db *gorm.DB, slug, name, price string) *models.InternetPlan {
	t.Helper()
	p := &models.InternetPlan{Plan: basePlan(slug, name, price), Speed: 100, ConnectionType: "fiber"}
	CreatePlan(t, db, p)
	return p
}

func CreateWirelessPlan(t testing.TB, db *gorm.DB, slug, name, price string) *models.WirelessPlan {
	t.Helper()
	p := &models.WirelessPlan{
		Plan:                basePlan(slug, name, price),
		DataAmount:          20,
		InternetType:        models.InternetType4G,
		MinutesOut:          500,
		SMSAmount:           100,
		ConnectWithPassport: true,
	}
	CreatePlan(t, db, p)
	return p
}

func CreateTVPlan(t testing.TB, db *gorm.DB, slug, name, price string) *models.TVPlan {
	t.Helper()
	p := &models.TVPlan{Plan: basePlan(slug, name, price), ChannelsAmount: 120, Quality: "HD"}
	CreatePlan(t, db, p)
	return p
}

// CreateCustomer registers a user with its customer profile and empty cart.
func CreateCustomer(t testing.TB, db *gorm.DB, username string) *models.Customer {
	t.Helper()

	ctx := context.Background()
	repos := repository.NewRepositories(db)

	user, err := models.CreateUser(username, "Test", "Testovich", username+"@email.com", "testing321")
	require.NoError(t, err)
	require.NoError(t, repos.User.Create(ctx, user))

	customer := &models.Customer{UserID: user.ID}
	require.NoError(t, repos.Customer.Create(ctx, customer))
	require.NoError(t, repos.Order.CreateList(ctx, &models.OrderedPlansList{OwnerID: customer.ID}))

	customer.User = *user
	return customer
}

func basePlan(slug, name, price string) models.Plan {
	return models.Plan{
		Slug:          slug,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		DaysToConnect: 3,
		Description:   "Test plan " + slug,
	}
}

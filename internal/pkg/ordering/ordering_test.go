package ordering_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/notification"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/testdb"
)

type fakeNotifier struct {
	notices []notification.OrderNotice
	err     error
}

func (f *fakeNotifier) OrderPlaced(_ context.Context, n notification.OrderNotice) error {
	f.notices = append(f.notices, n)
	return f.err
}

func newService(db *gorm.DB, notifier ordering.Notifier) *ordering.Service {
	repos := repository.NewRepositories(db)
	cat := catalog.NewService(catalog.DefaultRegistry(), repos.Service, repos.Plan)
	return ordering.NewService(repos, cat, notifier)
}

func countLines(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.OrderedPlan{}).Count(&n).Error)
	return n
}

var submission = ordering.Submission{
	FirstName: "Test",
	LastName:  "Testovich",
	Email:     "test@email.com",
	Profile: ordering.Profile{
		Phone:        "+380994445566",
		City:         "Kharkiv",
		Street:       "Teststreet",
		HouseNum:     13,
		ApartmentNum: 58,
	},
}

func TestRegisterCreatesCustomerAndEmptyList(t *testing.T) {
	db := testdb.New(t)
	svc := newService(db, nil)
	ctx := context.Background()

	user, err := models.CreateUser("testuser", "Test", "Testovich", "test@email.com", "testing321")
	require.NoError(t, err)

	customer, err := svc.Register(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, user.ID, customer.UserID)

	var customers, lists int64
	require.NoError(t, db.Model(&models.Customer{}).Where("user_id = ?", user.ID).Count(&customers).Error)
	require.NoError(t, db.Model(&models.OrderedPlansList{}).Where("owner_id = ?", customer.ID).Count(&lists).Error)
	assert.Equal(t, int64(1), customers)
	assert.Equal(t, int64(1), lists)
	assert.Zero(t, countLines(t, db))

	again, err := models.CreateUser("testuser", "", "", "other@email.com", "testing321")
	require.NoError(t, err)
	_, err = svc.Register(ctx, again)
	assert.ErrorIs(t, err, ordering.ErrUsernameTaken)

	require.NoError(t, db.Model(&models.Customer{}).Count(&customers).Error)
	assert.Equal(t, int64(1), customers)
}

func TestServiceInUseScenario(t *testing.T) {
	db := testdb.New(t)
	net5 := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	net10 := testdb.CreateInternetPlan(t, db, "net10", "Net 10", "250")
	tv := testdb.CreateTVPlan(t, db, "tv1", "TV Start", "120")
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, nil)
	ctx := context.Background()

	inUse, err := svc.IsServiceInUse(ctx, net5.ServiceID, customer)
	require.NoError(t, err)
	assert.False(t, inUse)

	_, err = svc.CreateOrderedPlan(ctx, net5, customer)
	require.NoError(t, err)

	inUse, err = svc.IsServiceInUse(ctx, net5.ServiceID, customer)
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = svc.IsServiceInUse(ctx, tv.ServiceID, customer)
	require.NoError(t, err)
	assert.False(t, inUse)

	ordered, err := svc.IsOrdered(ctx, net5, customer)
	require.NoError(t, err)
	assert.True(t, ordered)

	ordered, err = svc.IsOrdered(ctx, net10, customer)
	require.NoError(t, err)
	assert.False(t, ordered)

	state, err := svc.PlanState(ctx, net10, customer)
	require.NoError(t, err)
	assert.Equal(t, ordering.PlanState{ServiceInUse: true}, state)

	state, err = svc.PlanState(ctx, net5, customer)
	require.NoError(t, err)
	assert.Equal(t, ordering.PlanState{ServiceInUse: true, IsOrdered: true}, state)

	state, err = svc.PlanState(ctx, tv, customer)
	require.NoError(t, err)
	assert.Equal(t, ordering.PlanState{}, state)

	state, err = svc.PlanState(ctx, net5, nil)
	require.NoError(t, err)
	assert.Equal(t, ordering.PlanState{}, state)
}

func TestIsOrderedDistinguishesPlanKinds(t *testing.T) {
	db := testdb.New(t)
	internet := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	tv := testdb.CreateTVPlan(t, db, "tv1", "TV Start", "120")
	require.Equal(t, internet.ID, tv.ID)
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, nil)
	ctx := context.Background()

	_, err := svc.CreateOrderedPlan(ctx, internet, customer)
	require.NoError(t, err)

	ordered, err := svc.IsOrdered(ctx, tv, customer)
	require.NoError(t, err)
	assert.False(t, ordered)
}

func TestCreateOrderedPlanRejectsSecondPlanInService(t *testing.T) {
	db := testdb.New(t)
	net5 := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	net10 := testdb.CreateInternetPlan(t, db, "net10", "Net 10", "250")
	customer := testdb.CreateCustomer(t, db, "testuser")
	other := testdb.CreateCustomer(t, db, "otheruser")
	svc := newService(db, nil)
	ctx := context.Background()

	line, err := svc.CreateOrderedPlan(ctx, net5, customer)
	require.NoError(t, err)
	assert.Equal(t, models.RefOf(net5), line.Plan)
	assert.Equal(t, net5.ServiceID, line.ServiceID)
	assert.False(t, line.Confirmed)
	assert.Nil(t, line.ConnectedAt)

	_, err = svc.CreateOrderedPlan(ctx, net10, customer)
	assert.ErrorIs(t, err, ordering.ErrServiceInUse)

	_, err = svc.CreateOrderedPlan(ctx, net10, other)
	require.NoError(t, err)

	assert.Equal(t, int64(2), countLines(t, db))
}

func TestCreateOrderedPlanRequiresList(t *testing.T) {
	db := testdb.New(t)
	plan := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	user, err := models.CreateUser("nolist", "", "", "nolist@email.com", "testing321")
	require.NoError(t, err)
	require.NoError(t, repos.User.Create(ctx, user))
	customer := &models.Customer{UserID: user.ID}
	require.NoError(t, repos.Customer.Create(ctx, customer))

	_, err = newService(db, nil).CreateOrderedPlan(ctx, plan, customer)
	assert.ErrorIs(t, err, ordering.ErrCartMissing)
}

func TestDeleteOrderedPlan(t *testing.T) {
	db := testdb.New(t)
	plan := testdb.CreateWirelessPlan(t, db, "mob1", "Mobile", "99")
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, nil)
	ctx := context.Background()

	_, err := svc.CreateOrderedPlan(ctx, plan, customer)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrderedPlan(ctx, plan, customer))
	assert.Zero(t, countLines(t, db))

	ordered, err := svc.IsOrdered(ctx, plan, customer)
	require.NoError(t, err)
	assert.False(t, ordered)

	err = svc.DeleteOrderedPlan(ctx, plan, customer)
	assert.ErrorIs(t, err, ordering.ErrOrderedPlanNotFound)
}

func TestUpdateCustomerProfileOverwrites(t *testing.T) {
	db := testdb.New(t)
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateCustomerProfile(ctx, customer, submission.Profile))
	require.NoError(t, svc.UpdateCustomerProfile(ctx, customer, ordering.Profile{City: "Lviv"}))

	stored, err := svc.CustomerForUser(ctx, customer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Lviv", stored.City)
	assert.Equal(t, "", stored.Street)
	assert.Equal(t, "", stored.Phone)
	assert.Zero(t, stored.HouseNum)
	assert.Equal(t, "testuser", stored.User.Username)
}

func TestSubmitOrder(t *testing.T) {
	db := testdb.New(t)
	plan := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	customer := testdb.CreateCustomer(t, db, "testuser")
	notifier := &fakeNotifier{}
	svc := newService(db, notifier)
	ctx := context.Background()

	line, err := svc.SubmitOrder(ctx, plan, customer, submission)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countLines(t, db))

	stored, err := svc.CustomerForUser(ctx, customer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "+380994445566", stored.Phone)
	assert.Equal(t, "Kharkiv", stored.City)
	assert.Equal(t, "Teststreet", stored.Street)
	assert.Equal(t, 13, stored.HouseNum)
	assert.Equal(t, 58, stored.ApartmentNum)
	assert.Equal(t, "Kharkiv", customer.City)

	require.Len(t, notifier.notices, 1)
	n := notifier.notices[0]
	assert.Equal(t, line.Reference.String(), n.Reference)
	assert.Equal(t, "Net 5", n.PlanName)
	assert.Equal(t, "test@email.com", n.Email)
}

func TestSubmitOrderSurvivesNotificationFailure(t *testing.T) {
	db := testdb.New(t)
	plan := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, &fakeNotifier{err: errors.New("smtp down")})

	_, err := svc.SubmitOrder(context.Background(), plan, customer, submission)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countLines(t, db))
}

func TestSubmitOrderRollsBackProfileOnConflict(t *testing.T) {
	db := testdb.New(t)
	net5 := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	net10 := testdb.CreateInternetPlan(t, db, "net10", "Net 10", "250")
	customer := testdb.CreateCustomer(t, db, "testuser")
	notifier := &fakeNotifier{}
	svc := newService(db, notifier)
	ctx := context.Background()

	_, err := svc.CreateOrderedPlan(ctx, net5, customer)
	require.NoError(t, err)

	_, err = svc.SubmitOrder(ctx, net10, customer, submission)
	assert.ErrorIs(t, err, ordering.ErrServiceInUse)
	assert.Empty(t, notifier.notices)
	assert.Equal(t, "", customer.City)

	stored, err := svc.CustomerForUser(ctx, customer.UserID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.City)
	assert.Equal(t, int64(1), countLines(t, db))
}

func TestOrderedPlans(t *testing.T) {
	db := testdb.New(t)
	internet := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	tv := testdb.CreateTVPlan(t, db, "tv1", "TV Start", "120")
	customer := testdb.CreateCustomer(t, db, "testuser")
	svc := newService(db, nil)
	ctx := context.Background()

	_, err := svc.CreateOrderedPlan(ctx, tv, customer)
	require.NoError(t, err)
	_, err = svc.CreateOrderedPlan(ctx, internet, customer)
	require.NoError(t, err)

	views, err := svc.OrderedPlans(ctx, customer)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "TV Start", views[0].Plan.Base().Name)
	assert.Equal(t, "/cancel-plan/tv/tv1", models.CancelURL(views[0].Plan))
	assert.Equal(t, "Net 5", views[1].Plan.Base().Name)
}

func TestCustomerForUnknownUser(t *testing.T) {
	db := testdb.New(t)
	_, err := newService(db, nil).CustomerForUser(context.Background(), 999)
	assert.ErrorIs(t, err, ordering.ErrCustomerNotFound)
}

func TestEnsureCustomerCreatesMissingProfile(t *testing.T) {
	db := testdb.New(t)
	repos := repository.NewRepositories(db)
	svc := newService(db, nil)
	ctx := context.Background()

	user, err := models.CreateUser("cliuser", "", "", "cli@email.com", "testing321")
	require.NoError(t, err)
	require.NoError(t, repos.User.Create(ctx, user))

	customer, err := svc.EnsureCustomer(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, customer.UserID)

	again, err := svc.EnsureCustomer(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, again.ID)

	_, err = repos.Order.GetListByOwner(ctx, customer.ID)
	require.NoError(t, err)
}

func TestAllOrderLines(t *testing.T) {
	db := testdb.New(t)
	repos := repository.NewRepositories(db)
	internet := testdb.CreateInternetPlan(t, db, "net5", "Net 5", "150")
	tv := testdb.CreateTVPlan(t, db, "tv1", "TV Start", "120")
	first := testdb.CreateCustomer(t, db, "first")
	second := testdb.CreateCustomer(t, db, "second")
	svc := newService(db, nil)
	ctx := context.Background()

	_, err := svc.CreateOrderedPlan(ctx, internet, first)
	require.NoError(t, err)
	_, err = svc.CreateOrderedPlan(ctx, tv, first)
	require.NoError(t, err)
	_, err = svc.CreateOrderedPlan(ctx, internet, second)
	require.NoError(t, err)
	require.NoError(t, repos.Plan.Delete(ctx, models.PlanKindTV, tv.ID))

	views, err := svc.AllOrderLines(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, "second", views[0].Customer.User.Username)
	assert.Equal(t, "Net 5", views[0].Plan.Base().Name)
	assert.Equal(t, "first", views[1].Customer.User.Username)
	assert.Nil(t, views[1].Plan)
	assert.Equal(t, models.PlanRef{Kind: models.PlanKindTV, ID: tv.ID}, views[1].Line.Plan)
	assert.Equal(t, "Net 5", views[2].Plan.Base().Name)
}

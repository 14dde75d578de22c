package controllers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/testdb"
)

func newAdminEnv(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.loginAdmin(testdb.CreateCustomer(t, env.db, "boss"))
	return env
}

func wirelessValues() url.Values {
	return url.Values{
		"name":                  {"Mobile 20"},
		"slug":                  {"mob20"},
		"price":                 {"99.50"},
		"days_to_connect":       {"3"},
		"description":           {"Twenty gigabytes"},
		"data_amount":           {"20"},
		"internet_type":         {"5G"},
		"minutes_out":           {"500"},
		"minutes_abroad":        {"10"},
		"sms_amount":            {"100"},
		"connect_with_passport": {"true"},
	}
}

func TestAdminRequiresAdminRole(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get("/admin/services")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))

	env.login(testdb.CreateCustomer(t, env.db, "testuser"))
	resp, _ = env.get("/admin/services")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = env.post("/admin/plans/tv/delete/1", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAdminDashboard(t *testing.T) {
	env := newAdminEnv(t)
	testdb.CreateInternetPlan(t, env.db, "net5", "Net 5", "150")

	resp, body := env.get("/admin")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<a href="/admin/services">Services</a>`)
	assert.Contains(t, body, `<a href="/admin/orders">Order lines</a>`)
	assert.Contains(t, body, `<a href="/admin/plans/wireless">Wireless plans</a>`)
	assert.Contains(t, body, `<a href="/admin">Admin</a>`)
}

func TestAdminOrderLines(t *testing.T) {
	env := newAdminEnv(t)
	net5 := testdb.CreateInternetPlan(t, env.db, "net5", "Net 5", "150")
	customer := testdb.CreateCustomer(t, env.db, "testuser")

	_, body := env.get("/admin/orders")
	assert.Contains(t, body, "No order lines yet.")

	line, err := env.ordering.CreateOrderedPlan(context.Background(), net5, customer)
	require.NoError(t, err)

	resp, body := env.get("/admin/orders")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, line.Reference.String())
	assert.Contains(t, body, "testuser@email.com")
	assert.Contains(t, body, `<a href="/plans/internet/net5">Net 5</a>`)
	assert.Contains(t, body, "150.00")
	assert.Contains(t, body, "<td>no</td>")
}

func TestAdminServiceCRUD(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()
	tv := testdb.Service(t, env.db, "tv")
	internet := testdb.Service(t, env.db, "internet")

	resp, body := env.get("/admin/services")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `action="/admin/services/delete/`+strconv.Itoa(int(tv.ID))+`"`)

	resp, body = env.post("/admin/services/store", url.Values{"name": {"Radio"}, "slug": {"radio"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No plan table is registered for this slug.")

	resp, body = env.post("/admin/services/store", url.Values{"name": {"Television"}, "slug": {"tv"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "A service with that slug already exists.")

	resp, body = env.post("/admin/services/store", url.Values{"name": {"Television"}, "slug": {"Mobile TV"}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Use lowercase letters, digits and hyphens only.")

	resp, _ = env.post("/admin/services/delete/"+strconv.Itoa(int(tv.ID)), nil)
	assert.Equal(t, "/admin/services", resp.Header.Get("Location"))
	_, err := env.repos.Service.GetBySlug(ctx, "tv")
	assert.Error(t, err)

	resp, _ = env.post("/admin/services/store", url.Values{"name": {"Television"}, "slug": {"tv"}})
	assert.Equal(t, "/admin/services", resp.Header.Get("Location"))
	_, body = env.get("/admin/services")
	assert.Contains(t, body, "Service Television created.")

	resp, body = env.get("/admin/services/edit/" + strconv.Itoa(int(internet.ID)))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="internet"`)

	resp, _ = env.post("/admin/services/update/"+strconv.Itoa(int(internet.ID)), url.Values{"name": {"Home internet"}, "slug": {"internet"}})
	assert.Equal(t, "/admin/services", resp.Header.Get("Location"))
	got, err := env.repos.Service.GetBySlug(ctx, "internet")
	require.NoError(t, err)
	assert.Equal(t, "Home internet", got.Name)

	resp, _ = env.get("/admin/services/edit/9999")
	assert.Equal(t, "/admin/services", resp.Header.Get("Location"))
	resp, _ = env.get("/admin/services/edit/abc")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminServiceDeleteRefusedWithPlans(t *testing.T) {
	env := newAdminEnv(t)
	testdb.CreateInternetPlan(t, env.db, "net5", "Net 5", "150")
	internet := testdb.Service(t, env.db, "internet")

	resp, _ := env.post("/admin/services/delete/"+strconv.Itoa(int(internet.ID)), nil)
	assert.Equal(t, "/admin/services", resp.Header.Get("Location"))

	_, body := env.get("/admin/services")
	assert.Contains(t, body, "still has plans. Delete them first.")
	_, err := env.repos.Service.GetBySlug(context.Background(), "internet")
	assert.NoError(t, err)
}

func TestAdminPlanCreate(t *testing.T) {
	env := newAdminEnv(t)
	ctx := context.Background()

	_, body := env.get("/")
	assert.Contains(t, body, "0 plans")

	resp, body := env.get("/admin/plans/wireless/create")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="data_amount"`)
	assert.NotContains(t, body, `name="channels_amount"`)

	resp, _ = env.post("/admin/plans/wireless/store", wirelessValues())
	assert.Equal(t, "/admin/plans/wireless", resp.Header.Get("Location"))

	plans, err := env.repos.Plan.List(ctx, models.PlanKindWireless, repository.PlanSort{})
	require.NoError(t, err)
	require.Len(t, plans, 1)
	p := plans[0].(*models.WirelessPlan)
	assert.Equal(t, "Mobile 20", p.Name)
	assert.True(t, decimal.RequireFromString("99.5").Equal(p.Price))
	assert.Equal(t, models.InternetType5G, p.InternetType)
	assert.Equal(t, 10, p.MinutesAbroad)
	assert.True(t, p.ConnectWithPassport)
	assert.Equal(t, testdb.Service(t, env.db, "wireless").ID, p.ServiceID)

	_, body = env.get("/admin/plans/wireless")
	assert.Contains(t, body, "Plan Mobile 20 created.")
	assert.Contains(t, body, `<a href="/plans/wireless/mob20">Mobile 20</a>`)

	_, body = env.get("/")
	assert.Contains(t, body, "1 plans")

	resp, body = env.post("/admin/plans/wireless/store", wirelessValues())
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "A plan with that slug already exists.")
}

func TestAdminPlanValidation(t *testing.T) {
	env := newAdminEnv(t)

	values := wirelessValues()
	values.Set("price", "1.005")
	values.Set("sms_amount", "")

	resp, body := env.post("/admin/plans/wireless/store", values)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Enter a non-negative amount with at most two decimal places.")
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, `value="Mobile 20"`)
	assert.Equal(t, int64(0), planCount(t, env))

	resp, _ = env.get("/admin/plans/radio")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp, _ = env.post("/admin/plans/radio/store", values)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminPlanUpdate(t *testing.T) {
	env := newAdminEnv(t)
	tv := testdb.CreateTVPlan(t, env.db, "tv1", "TV Start", "120")
	tv.ParentControlAvailable = true
	require.NoError(t, env.repos.Plan.Update(context.Background(), tv))
	id := strconv.Itoa(int(tv.ID))

	resp, body := env.get("/admin/plans/tv/edit/" + id)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="120.00"`)
	assert.Contains(t, body, `name="parent_control_available" value="true" checked`)

	// an unticked checkbox is not submitted at all
	resp, _ = env.post("/admin/plans/tv/update/"+id, url.Values{
		"name":            {"TV Plus"},
		"slug":            {"tv1"},
		"price":           {"145"},
		"days_to_connect": {"0"},
		"channels_amount": {"200"},
		"quality":         {"4K"},
	})
	assert.Equal(t, "/admin/plans/tv", resp.Header.Get("Location"))

	got, err := env.repos.Plan.GetByID(context.Background(), models.PlanKindTV, tv.ID)
	require.NoError(t, err)
	p := got.(*models.TVPlan)
	assert.Equal(t, "TV Plus", p.Name)
	assert.True(t, decimal.RequireFromString("145").Equal(p.Price))
	assert.Equal(t, 0, p.DaysToConnect)
	assert.Equal(t, 200, p.ChannelsAmount)
	assert.False(t, p.ParentControlAvailable)

	resp, _ = env.get("/admin/plans/internet/edit/" + id)
	assert.Equal(t, "/admin/plans/internet", resp.Header.Get("Location"))
}

func TestAdminPlanDelete(t *testing.T) {
	env := newAdminEnv(t)
	net5 := testdb.CreateInternetPlan(t, env.db, "net5", "Net 5", "150")
	net10 := testdb.CreateInternetPlan(t, env.db, "net10", "Net 10", "250")
	customer := testdb.CreateCustomer(t, env.db, "testuser")
	_, err := env.ordering.CreateOrderedPlan(context.Background(), net5, customer)
	require.NoError(t, err)

	resp, _ := env.post("/admin/plans/internet/delete/"+strconv.Itoa(int(net5.ID)), nil)
	assert.Equal(t, "/admin/plans/internet", resp.Header.Get("Location"))
	_, body := env.get("/admin/plans/internet")
	assert.Contains(t, body, "Plan Net 5 is ordered by customers and cannot be deleted.")
	assert.Equal(t, int64(2), planCount(t, env))

	resp, _ = env.post("/admin/plans/internet/delete/"+strconv.Itoa(int(net10.ID)), nil)
	assert.Equal(t, "/admin/plans/internet", resp.Header.Get("Location"))
	_, body = env.get("/admin/plans/internet")
	assert.Contains(t, body, "Plan Net 10 deleted.")
	assert.NotContains(t, body, `<a href="/plans/internet/net10">`)
	assert.Equal(t, int64(1), planCount(t, env))
	assert.Equal(t, int64(1), env.lineCount())
}

func planCount(t *testing.T, env *testEnv) int64 {
	t.Helper()
	n, err := env.repos.Plan.Count(context.Background())
	require.NoError(t, err)
	return n
}

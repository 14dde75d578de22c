package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/hcaptcha"
	"github.com/shvarc/provider/internal/pkg/middleware"
	"github.com/shvarc/provider/internal/pkg/notification"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/session"
	"github.com/shvarc/provider/internal/pkg/statistics"
	"github.com/shvarc/provider/internal/pkg/testdb"
)

// mapCache keeps the counters in memory in place of redis
type mapCache map[string]string

func (m mapCache) Get(_ context.Context, key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", errors.New("miss")
	}
	return v, nil
}

func (m mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m[key], _ = value.(string)
	return nil
}

func (m mapCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

type recordingNotifier struct {
	notices []notification.OrderNotice
}

func (r *recordingNotifier) OrderPlaced(_ context.Context, n notification.OrderNotice) error {
	r.notices = append(r.notices, n)
	return nil
}

type testEnv struct {
	t        *testing.T
	app      *fiber.App
	db       *gorm.DB
	repos    *repository.Repositories
	ordering *ordering.Service
	notifier *recordingNotifier
	cookies  map[string]*http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	repos := repository.NewRepositories(db)
	notifier := &recordingNotifier{}
	cat := catalog.NewService(catalog.DefaultRegistry(), repos.Service, repos.Plan)
	orders := ordering.NewService(repos, cat, notifier)
	sessions := session.NewMemoryStore()
	stats := statistics.NewService(mapCache{}, repos.Customer, repos.Plan, repos.Order)
	manager := catalog.NewManager(catalog.DefaultRegistry(), repos)

	app := fiber.New(fiber.Config{Views: html.New("../../views", ".html")})
	app.Use(middleware.UserContextMiddleware(sessions))

	// stands in for the login form so tests can skip bcrypt round trips
	app.Get("/test-login/:username", func(c *fiber.Ctx) error {
		user, err := repos.User.GetByUsername(c.UserContext(), c.Params("username"))
		if err != nil {
			return err
		}
		if err := sessions.Login(c, session.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin()}); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	catalogController := NewCatalogController(cat, orders, stats)
	orderController := NewOrderController(cat, orders, stats)
	accountController := NewAccountController(repos.User, orders)
	authController := NewAuthController(repos.User, orders, sessions, hcaptcha.NewVerifier("", ""), stats)
	adminController := NewAdminController(repos, orders)
	adminCatalogController := NewAdminCatalogController(manager, stats)

	app.Get("/", catalogController.HandleHome)
	app.Get("/services/:slug", catalogController.HandleServiceDetails)
	app.Get("/plans/:service/:plan", catalogController.HandlePlanDetails)
	app.Get("/anonym-order", orderController.HandleAnonymOrder)
	app.Get("/service-in-use", middleware.RequireAuth, orderController.HandleServiceInUse)
	app.Get("/order-submission/:service/:plan", middleware.RequireAuth, orderController.HandleOrderForm)
	app.Post("/order-submission/:service/:plan", middleware.RequireAuth, orderController.HandleOrderSubmit)
	app.Post("/cancel-plan/:service/:plan", middleware.RequireAuth, orderController.HandleCancelPlan)
	app.Get("/account", middleware.RequireAuth, accountController.HandleAccount)
	app.Post("/account", middleware.RequireAuth, accountController.HandleAccountUpdate)
	app.Get("/login", authController.HandleLogin)
	app.Post("/login", authController.HandleLoginPost)
	app.Post("/logout", middleware.RequireAuth, authController.HandleLogout)
	app.Get("/register", authController.HandleRegister)
	app.Post("/register", authController.HandleRegisterPost)

	admin := app.Group("/admin", middleware.RequireAdmin)
	admin.Get("/", adminController.HandleAdminDashboard)
	admin.Get("/orders", adminController.HandleAdminOrders)
	admin.Get("/services", adminCatalogController.HandleAdminServices)
	admin.Get("/services/create", adminCatalogController.HandleAdminServiceCreate)
	admin.Post("/services/store", adminCatalogController.HandleAdminServiceStore)
	admin.Get("/services/edit/:id", adminCatalogController.HandleAdminServiceEdit)
	admin.Post("/services/update/:id", adminCatalogController.HandleAdminServiceUpdate)
	admin.Post("/services/delete/:id", adminCatalogController.HandleAdminServiceDelete)
	admin.Get("/plans/:kind", adminCatalogController.HandleAdminPlans)
	admin.Get("/plans/:kind/create", adminCatalogController.HandleAdminPlanCreate)
	admin.Post("/plans/:kind/store", adminCatalogController.HandleAdminPlanStore)
	admin.Get("/plans/:kind/edit/:id", adminCatalogController.HandleAdminPlanEdit)
	admin.Post("/plans/:kind/update/:id", adminCatalogController.HandleAdminPlanUpdate)
	admin.Post("/plans/:kind/delete/:id", adminCatalogController.HandleAdminPlanDelete)

	return &testEnv{
		t:        t,
		app:      app,
		db:       db,
		repos:    repos,
		ordering: orders,
		notifier: notifier,
		cookies:  map[string]*http.Cookie{},
	}
}

func (e *testEnv) do(req *http.Request) (*http.Response, string) {
	e.t.Helper()

	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)

	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(e.cookies, c.Name)
			continue
		}
		e.cookies[c.Name] = c
	}

	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp, string(body)
}

func (e *testEnv) get(path string) (*http.Response, string) {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) post(path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return e.do(req)
}

func (e *testEnv) login(customer *models.Customer) {
	e.t.Helper()
	resp, _ := e.get("/test-login/" + customer.User.Username)
	require.Equal(e.t, fiber.StatusNoContent, resp.StatusCode)
}

// loginAdmin promotes the customer's user to admin and logs it in.
func (e *testEnv) loginAdmin(customer *models.Customer) {
	e.t.Helper()
	require.NoError(e.t, e.repos.User.SetRole(context.Background(), customer.User.Username, models.ROLE_ADMIN))
	e.login(customer)
}

func (e *testEnv) lineCount() int64 {
	e.t.Helper()
	n, err := e.repos.Order.Count(context.Background())
	require.NoError(e.t, err)
	return n
}

func orderValues() url.Values {
	return url.Values{
		"first_name":    {"Test"},
		"last_name":     {"Testovich"},
		"email":         {"test@email.com"},
		"phone":         {"+380994445566"},
		"city":          {"Kharkiv"},
		"street":        {"Teststreet"},
		"house_num":     {"13"},
		"apartment_num": {"58"},
	}
}

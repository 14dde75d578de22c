package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/cache"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/constants"
	"github.com/shvarc/provider/internal/pkg/database"
	"github.com/shvarc/provider/internal/pkg/env"
	"github.com/shvarc/provider/internal/pkg/hcaptcha"
	"github.com/shvarc/provider/internal/pkg/jobqueue"
	"github.com/shvarc/provider/internal/pkg/mail"
	"github.com/shvarc/provider/internal/pkg/notification"
	"github.com/shvarc/provider/internal/pkg/ordering"
	"github.com/shvarc/provider/internal/pkg/router"
	"github.com/shvarc/provider/internal/pkg/session"
	"github.com/shvarc/provider/internal/pkg/statistics"
)

func main() {
	app := NewApplication()

	go func() {
		if err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))); err != nil {
			log.Fatal(err)
		}
	}()

	// graceful shutdown, the shutdown hooks stop the job queue
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

type stopper interface {
	Stop()
}

// stopOnShutdown stops s after the server has shut down.
func stopOnShutdown(app *fiber.App, s stopper) {
	app.Hooks().OnShutdown(func() error {
		s.Stop()
		return nil
	})
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	db := database.SetupDatabase()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",     // Current directory
		"../../", // From cmd/provider to project root
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views: html.New(basePath+"views", ".html"),
	})

	// recovery and logging
	app.Use(recover.New(), logger.New(logger.Config{
		Format:     "[${time}] ${ip} - ${method} ${path} - ${status} - ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// static files
	app.Static(constants.PublicRoute, basePath+"public", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsRoute + "/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// services
	repos := repository.NewFactory(db).GetRepositories()
	cat := catalog.NewService(catalog.DefaultRegistry(), repos.Service, repos.Plan)
	// order mails are delivered by the job queue workers
	workers, err := strconv.Atoi(env.GetEnv("MAIL_WORKERS", "2"))
	if err != nil {
		workers = 2
	}
	queue := jobqueue.NewQueue(cache.GetClient(), workers)
	queue.Handle(jobqueue.JobTypeSendMail, jobqueue.SendMailHandler(mail.NewSMTPMailerFromEnv()))
	queue.Start()
	stopOnShutdown(app, queue)
	notifier := notification.NewService(jobqueue.NewMailSender(queue), env.GetEnv("ADMIN_EMAIL", "admin@shvarc.local"))
	stats := statistics.NewService(cache.NewStore(cache.GetClient()), repos.Customer, repos.Plan, repos.Order)

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Repos:    repos,
		Catalog:  cat,
		Manager:  catalog.NewManager(catalog.DefaultRegistry(), repos),
		Ordering: ordering.NewService(repos, cat, notifier),
		Stats:    stats,
		Sessions: session.NewRedisStore(),
		Captcha:  hcaptcha.NewVerifier(env.GetEnv("HCAPTCHA_SITEKEY", ""), env.GetEnv("HCAPTCHA_SECRET", "")),
	})

	return app
}

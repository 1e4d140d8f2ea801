// Package main provides the Newsdesk API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/create-newspulse/newsdesk/pkg/auth"
	"github.com/create-newspulse/newsdesk/pkg/eventbus"
	"github.com/create-newspulse/newsdesk/pkg/persistence"
	"github.com/create-newspulse/newsdesk/pkg/services"
	"github.com/create-newspulse/newsdesk/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	jwtSecret   []byte
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	jwtSecret []byte,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		jwtSecret:   jwtSecret,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	storyService := services.NewStory(a.persistence)
	workflowService := services.NewWorkflow(a.persistence, a.eventBus, a.logger)
	checklistService := services.NewChecklist(a.persistence, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(storyService, workflowService, checklistService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Newsdesk API")
	})

	s := app.Group("/stories", auth.Middleware(a.jwtSecret))
	s.Get("/", handlers.GetStories)
	s.Post("/", handlers.CreateStory)
	s.Get("/:id", handlers.GetStory)
	s.Delete("/:id", handlers.DeleteStory)

	// Workflow endpoints:
	s.Get("/:id/workflow", handlers.GetWorkflowState)
	s.Get("/:id/approvals", handlers.GetApprovals)
	s.Patch("/:id/checklist", handlers.PatchChecklist)
	s.Post("/:id/transition", handlers.Transition)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}

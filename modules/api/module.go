package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/WaleedKhaledKhaled/TasksManager/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// HealthChecker is the slice of a module the health endpoint reports on.
// The database-backed modules satisfy it with their connection pings.
type HealthChecker interface {
	Name() string
	Health(ctx context.Context) mono.HealthStatus
}

// APIModule is the HTTP API module.
type APIModule struct {
	app             *fiber.App
	port            string
	healthChecks    []HealthChecker
	authContainer   mono.ServiceContainer
	taskContainer   mono.ServiceContainer
	reportContainer mono.ServiceContainer
	authAdapter     auth.AuthPort
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule. The given checkers are surfaced through
// the /health endpoint alongside the API's own state.
func NewModule(healthChecks ...HealthChecker) *APIModule {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return &APIModule{
		port:         port,
		healthChecks: healthChecks,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "report"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAuthAdapter(container)
	case "task":
		m.taskContainer = container
	case "report":
		m.reportContainer = container
	}
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil || m.taskContainer == nil || m.reportContainer == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	// Add middleware
	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	// Setup routes
	m.setupRoutes()

	// Start server in goroutine
	go func() {
		if err := m.app.Listen(":" + m.port); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%s", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.taskContainer, m.reportContainer)

	// Health check endpoint
	m.app.Get("/health", healthHandler(m.healthChecks))

	// API v1 routes
	v1 := m.app.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)

	// Protected routes (require authentication)
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))

	tasks := protected.Group("/tasks")
	tasks.Get("/", handlers.ListTasks)
	tasks.Post("/", handlers.CreateTask)
	// Registered before the :id routes so "filter" is not captured as an ID.
	tasks.Get("/filter", handlers.FilterTasks)
	tasks.Get("/:id", handlers.GetTask)
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)

	reports := protected.Group("/reports")
	reports.Get("/summary", handlers.Summary)
}

// healthHandler aggregates per-module health, database pings included, into
// one readiness response. Any unhealthy module degrades the whole endpoint
// to 503.
func healthHandler(checks []HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		healthy := true
		modules := make(map[string]any, len(checks))
		for _, check := range checks {
			status := check.Health(c.UserContext())
			entry := fiber.Map{
				"healthy": status.Healthy,
				"message": status.Message,
			}
			if len(status.Details) > 0 {
				entry["details"] = status.Details
			}
			modules[check.Name()] = entry
			if !status.Healthy {
				healthy = false
			}
		}

		code := fiber.StatusOK
		overall := "healthy"
		if !healthy {
			code = fiber.StatusServiceUnavailable
			overall = "unhealthy"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":  overall,
			"modules": modules,
		})
	}
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

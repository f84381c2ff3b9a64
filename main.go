package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/WaleedKhaledKhaled/TasksManager/modules/api"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/auth"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/report"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== TasksManager API ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	authModule := auth.NewModule()     // user accounts and tokens
	taskModule := task.NewModule()     // task lifecycle and queries
	reportModule := report.NewModule() // depends on task module
	// The api module exposes its dependencies' health, database pings
	// included, over /health.
	apiModule := api.NewModule(authModule, taskModule, reportModule)

	// Register modules with the framework.
	// Order: independent modules first, then dependent modules.
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(reportModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register    - Register a new user")
	log.Println("  POST   /api/v1/auth/login       - Login and get a token")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/tasks            - List all tasks, newest first")
	log.Println("  POST   /api/v1/tasks            - Create a task")
	log.Println("  GET    /api/v1/tasks/filter     - Filter, sort and paginate tasks")
	log.Println("  GET    /api/v1/tasks/:id        - Get a single task")
	log.Println("  PUT    /api/v1/tasks/:id        - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id        - Delete a task")
	log.Println("  GET    /api/v1/reports/summary  - Progress summary report")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task lifecycle and query services via GORM + SQLite.
type TaskModule struct {
	db      *gorm.DB
	service *Service
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule.
func NewModule() *TaskModule {
	dbPath := os.Getenv("TASKS_DB_PATH")
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(repo)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "create", json.Unmarshal, json.Marshal, m.handleCreate)
		},
		"update": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update", json.Unmarshal, json.Marshal, m.handleUpdate)
		},
		"delete": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "delete", json.Unmarshal, json.Marshal, m.handleDelete)
		},
		"get": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get", json.Unmarshal, json.Marshal, m.handleGet)
		},
		"list": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "list", json.Unmarshal, json.Marshal, m.handleList)
		},
		"filter": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "filter", json.Unmarshal, json.Marshal, m.handleFilter)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[task] Registered services: create, update, delete, get, list, filter")
	return nil
}

// handleCreate handles task creation.
func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Create(ctx, req.UserID, req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// handleUpdate handles task updates.
func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.Update(ctx, req.UserID, req.TaskID, req)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// handleDelete handles task deletion.
func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.UserID, req.TaskID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.TaskID}, err
	}
	return DeleteTaskResponse{Deleted: true, ID: req.TaskID}, nil
}

// handleGet handles single task retrieval.
func (m *TaskModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := m.service.GetByID(ctx, req.UserID, req.TaskID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// handleList handles listing all of a user's tasks.
func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.GetAll(ctx, req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}
	return resp, nil
}

// handleFilter handles filtered, paginated task queries.
func (m *TaskModule) handleFilter(ctx context.Context, req FilterTasksRequest, _ *mono.Msg) (FilterTasksResponse, error) {
	page, err := m.service.Filter(ctx, req.UserID, req.Filter)
	if err != nil {
		return FilterTasksResponse{}, err
	}

	resp := FilterTasksResponse{
		Items:      make([]TaskResponse, 0, len(page.Items)),
		TotalCount: page.TotalCount,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: page.TotalPages,
	}
	for i := range page.Items {
		resp.Items = append(resp.Items, toTaskResponse(&page.Items[i]))
	}
	return resp, nil
}

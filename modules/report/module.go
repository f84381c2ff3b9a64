package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/WaleedKhaledKhaled/TasksManager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
)

// summaryTTL is how long a cached summary stays fresh. There is no write
// invalidation; reports tolerate this much staleness by design.
const summaryTTL = 5 * time.Minute

// ReportModule provides task progress reports.
type ReportModule struct {
	service     *Service
	cache       *summaryCache
	taskAdapter task.TaskPort
	redisAddr   string
}

// Compile-time interface checks.
var _ mono.Module = (*ReportModule)(nil)
var _ mono.DependentModule = (*ReportModule)(nil)
var _ mono.ServiceProviderModule = (*ReportModule)(nil)
var _ mono.HealthCheckableModule = (*ReportModule)(nil)

// NewModule creates a new ReportModule. Caching is enabled only when
// REPORT_REDIS_ADDR is set.
func NewModule() *ReportModule {
	return &ReportModule{
		redisAddr: os.Getenv("REPORT_REDIS_ADDR"),
	}
}

// Name returns the module name.
func (m *ReportModule) Name() string {
	return "report"
}

// Dependencies returns the list of module dependencies.
func (m *ReportModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *ReportModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskAdapter = task.NewTaskAdapter(container)
	}
}

// Start initializes the report module. A missing or unreachable Redis is not
// fatal: summaries are then computed on every request.
func (m *ReportModule) Start(ctx context.Context) error {
	if m.taskAdapter == nil {
		return fmt.Errorf("task dependency not set")
	}

	if m.redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:         m.redisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[report] Redis unreachable at %s, running without cache: %v", m.redisAddr, err)
			client.Close()
		} else {
			m.cache = newSummaryCache(client, summaryTTL)
			log.Printf("[report] Summary cache enabled (redis: %s, ttl: %s)", m.redisAddr, summaryTTL)
		}
	}

	m.service = NewService(m.taskAdapter, m.cache)

	log.Println("[report] Module started")
	return nil
}

// Stop shuts down the module.
func (m *ReportModule) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			log.Printf("[report] Error closing Redis connection: %v", err)
		}
	}
	log.Println("[report] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *ReportModule) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}

	details := map[string]any{"cache": "disabled"}
	if m.cache != nil {
		if err := m.cache.Ping(ctx); err != nil {
			details["cache"] = fmt.Sprintf("unreachable: %v", err)
		} else {
			details["cache"] = "redis"
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *ReportModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"summary",
		json.Unmarshal,
		json.Marshal,
		m.handleSummary,
	); err != nil {
		return fmt.Errorf("failed to register summary service: %w", err)
	}

	log.Printf("[report] Registered services: summary")
	return nil
}

// handleSummary handles summary requests.
func (m *ReportModule) handleSummary(ctx context.Context, req SummaryRequest, _ *mono.Msg) (Summary, error) {
	summary, err := m.service.Summary(ctx, req.UserID)
	if err != nil {
		return Summary{}, err
	}
	return *summary, nil
}

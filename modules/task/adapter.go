package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort is the interface other modules use to read task data. The report
// module consumes it to materialize one consistent snapshot of a user's
// visible tasks.
type TaskPort interface {
	ListAll(ctx context.Context, userID string) ([]TaskResponse, error)
}

// TaskAdapter implements TaskPort using the service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// ListAll returns every visible task of a user in one materialized slice.
func (a *TaskAdapter) ListAll(ctx context.Context, userID string) ([]TaskResponse, error) {
	req := ListTasksRequest{UserID: userID}
	var resp ListTasksResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}

	return resp.Tasks, nil
}

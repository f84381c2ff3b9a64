package task

import (
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the request for updating a task. All mutable fields
// are replaced.
type UpdateTaskRequest struct {
	UserID      string          `json:"user_id"`
	TaskID      string          `json:"task_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ListTasksRequest is the request for listing all of a user's tasks.
type ListTasksRequest struct {
	UserID string `json:"user_id"`
}

// ListTasksResponse is the response containing a user's tasks, newest first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// FilterTasksRequest is the request for a filtered, paginated task query.
type FilterTasksRequest struct {
	UserID string `json:"user_id"`
	Filter Filter `json:"filter"`
}

// FilterTasksResponse is one page of a filtered query.
type FilterTasksResponse struct {
	Items      []TaskResponse `json:"items"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	CreatedAt   time.Time       `json:"created_at"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		CreatedAt:   t.CreatedAt,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
	}
}

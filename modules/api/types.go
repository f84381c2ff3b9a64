package api

import (
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
)

// APIResponse is the envelope every handler-level response is wrapped in.
type APIResponse struct {
	Status string   `json:"status"`
	Result any      `json:"result,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func successResponse(result any) APIResponse {
	return APIResponse{
		Status: "success",
		Result: result,
	}
}

func failureResponse(errs ...string) APIResponse {
	return APIResponse{
		Status: "failure",
		Errors: errs,
	}
}

// ErrorResponse is the shape returned by middleware-level failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskBody carries the mutable task fields for create and update requests.
// Status and priority are accepted as their string names.
type TaskBody struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	DueDate     *time.Time      `json:"due_date"`
}

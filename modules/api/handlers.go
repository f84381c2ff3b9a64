package api

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	taskdomain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	userdomain "github.com/WaleedKhaledKhaled/TasksManager/domain/user"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/auth"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/report"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	minPasswordLength    = 8
	maxPasswordLength    = 72
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer   mono.ServiceContainer
	taskContainer   mono.ServiceContainer
	reportContainer mono.ServiceContainer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer, reportContainer mono.ServiceContainer) *Handlers {
	return &Handlers{
		authContainer:   authContainer,
		taskContainer:   taskContainer,
		reportContainer: reportContainer,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if errs := validateRegister(req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(failureResponse(errs...))
	}

	authReq := auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(successResponse(resp))
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.AuthResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// CreateTask handles task creation.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	var body TaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if errs := validateTaskBody(body); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(failureResponse(errs...))
	}

	taskReq := task.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"create",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(successResponse(resp))
}

// UpdateTask handles task updates.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	var body TaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if errs := validateTaskBody(body); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(failureResponse(errs...))
	}

	taskReq := task.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"update",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// GetTask handles single task retrieval.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := task.GetTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	}
	var resp task.TaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"get",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// DeleteTask handles task deletion.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := task.DeleteTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("id"),
	}
	var resp task.DeleteTaskResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// ListTasks handles listing all of the current user's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	taskReq := task.ListTasksRequest{UserID: claims.UserID}
	var resp task.ListTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"list",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// FilterTasks handles filtered, paginated task queries driven by query
// parameters.
func (h *Handlers) FilterTasks(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	filter, errs := parseFilterQuery(c)
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(failureResponse(errs...))
	}

	taskReq := task.FilterTasksRequest{
		UserID: claims.UserID,
		Filter: filter,
	}
	var resp task.FilterTasksResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.taskContainer,
		"filter",
		json.Marshal,
		json.Unmarshal,
		&taskReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// Summary handles the progress report endpoint.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	claims, ok := currentUser(c)
	if !ok {
		return unauthenticated(c)
	}

	reportReq := report.SummaryRequest{UserID: claims.UserID}
	var resp report.Summary

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.reportContainer,
		"summary",
		json.Marshal,
		json.Unmarshal,
		&reportReq,
		&resp,
	); err != nil {
		return h.handleServiceError(c, err)
	}

	c.Set(fiber.HeaderCacheControl, "public,max-age=300")
	return c.Status(fiber.StatusOK).JSON(successResponse(resp))
}

// currentUser extracts the authenticated user's claims from the request
// context. The auth middleware sets them on every protected route.
func currentUser(c *fiber.Ctx) (*userdomain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*userdomain.Claims)
	return claims, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(failureResponse(message))
}

func validateRegister(req RegisterRequest) []string {
	var errs []string
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "Email is required")
	} else if !strings.Contains(req.Email, "@") {
		errs = append(errs, "Invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(req.Password) > maxPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at most %d characters", maxPasswordLength))
	}
	if len(req.Name) > maxTitleLength {
		errs = append(errs, fmt.Sprintf("Name must be at most %d characters", maxTitleLength))
	}
	return errs
}

func validateTaskBody(body TaskBody) []string {
	var errs []string
	if strings.TrimSpace(body.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if len(body.Title) > maxTitleLength {
		errs = append(errs, fmt.Sprintf("Title must be at most %d characters", maxTitleLength))
	}
	if len(body.Description) > maxDescriptionLength {
		errs = append(errs, fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength))
	}
	if !body.Status.Valid() {
		errs = append(errs, "Invalid status")
	}
	if !body.Priority.Valid() {
		errs = append(errs, "Invalid priority")
	}
	if body.DueDate != nil && !body.DueDate.After(time.Now()) {
		errs = append(errs, "Due date must be in the future")
	}
	return errs
}

// parseFilterQuery builds a task filter from query parameters. Enum values
// are comma separated string names; dates are RFC 3339.
func parseFilterQuery(c *fiber.Ctx) (task.Filter, []string) {
	var (
		filter task.Filter
		errs   []string
	)

	filter.Search = c.Query("search")
	filter.SortBy = c.Query("sort_by")
	filter.Desc = c.QueryBool("desc")

	for _, raw := range splitQueryList(c.Query("statuses")) {
		status, err := taskdomain.ParseStatus(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid status %q", raw))
			continue
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	for _, raw := range splitQueryList(c.Query("priorities")) {
		priority, err := taskdomain.ParsePriority(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid priority %q", raw))
			continue
		}
		filter.Priorities = append(filter.Priorities, priority)
	}

	dateParams := []struct {
		name string
		dest **time.Time
	}{
		{"created_from", &filter.CreatedFrom},
		{"created_to", &filter.CreatedTo},
		{"due_from", &filter.DueFrom},
		{"due_to", &filter.DueTo},
	}
	for _, p := range dateParams {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid %s date, expected RFC 3339", p.name))
			continue
		}
		*p.dest = &parsed
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, "Invalid page number")
		} else {
			filter.Page = page
		}
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, "Invalid page size")
		} else {
			filter.PageSize = size
		}
	}

	return filter, errs
}

func splitQueryList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// handleServiceError maps service errors to HTTP responses. It matches error
// messages to provide user-friendly responses without exposing internals.
func (h *Handlers) handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task was not found"):
		return c.Status(fiber.StatusNotFound).JSON(failureResponse("Task was not found"))
	case strings.Contains(errStr, "completed tasks cannot be edited"):
		return c.Status(fiber.StatusConflict).JSON(failureResponse("Completed tasks cannot be edited"))
	case strings.Contains(errStr, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(failureResponse("User with this email already exists"))
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(failureResponse("Invalid email or password"))
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(failureResponse("An internal error occurred"))
	}
}

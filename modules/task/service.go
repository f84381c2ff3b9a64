package task

import (
	"context"
	"fmt"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	"github.com/google/uuid"
)

// Service owns the task lifecycle rules. It is the sole writer of task state;
// field-shape validation (lengths, future due dates) is the HTTP boundary's
// job and is not repeated here.
type Service struct {
	store Store
}

// NewService creates a new task Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create builds and persists a new task owned by userID. A task created
// directly in Done status gets its completion time stamped to the creation
// time.
func (s *Service) Create(ctx context.Context, userID string, req CreateTaskRequest) (*domain.Task, error) {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CreatedAt:   now,
		DueDate:     req.DueDate,
		UserID:      userID,
	}
	if req.Status == domain.StatusDone {
		t.CompletedAt = &now
	}

	if err := s.store.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// Update replaces the mutable fields of a task. A task whose current status
// is Done is rejected with ErrTaskCompleted regardless of the requested
// fields; Done is terminal. Transitioning into Done stamps the completion
// time, any non-Done target status leaves it cleared.
func (s *Service) Update(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.store.FindOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if t.Status == domain.StatusDone {
		return nil, ErrTaskCompleted
	}

	becameDone := req.Status == domain.StatusDone && t.Status != domain.StatusDone

	t.Title = req.Title
	t.Description = req.Description
	t.Status = req.Status
	t.Priority = req.Priority
	t.DueDate = req.DueDate

	if becameDone {
		now := time.Now().UTC()
		t.CompletedAt = &now
	} else {
		// The current status is never Done here, so a non-Done target
		// cannot be leaving Done; the timestamp simply stays unset.
		t.CompletedAt = nil
	}

	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete soft-deletes a task. Status is not checked: a Done task can be
// deleted. A second delete of the same task reports ErrTaskNotFound because
// the deleted row is no longer visible.
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	return s.store.SoftDeleteOwned(ctx, userID, taskID)
}

// GetByID returns a single task scoped to its owner.
func (s *Service) GetByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	return s.store.FindOwned(ctx, userID, taskID)
}

// GetAll returns every visible task of a user, most recently created first.
func (s *Service) GetAll(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.store.ListOwned(ctx, userID)
}

// Filter returns one deterministically ordered page of the user's tasks
// matching f. Malformed paging inputs are clamped, never rejected.
func (s *Service) Filter(ctx context.Context, userID string, f Filter) (*Page, error) {
	return s.store.Query(ctx, userID, f)
}

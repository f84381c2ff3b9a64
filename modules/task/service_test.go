package task

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	"github.com/google/uuid"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := setupTestDB(t)
	return NewService(NewRepository(db))
}

func TestService_Create(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("defaults leave completion unset", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:    "Plan sprint",
			Status:   domain.StatusTodo,
			Priority: domain.PriorityMedium,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.ID == "" {
			t.Error("expected a generated id")
		}
		if created.UserID != userID {
			t.Errorf("expected owner %s, got %s", userID, created.UserID)
		}
		if created.CompletedAt != nil {
			t.Errorf("expected nil CompletedAt, got %v", created.CompletedAt)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be stamped")
		}
	})

	t.Run("creating in Done stamps completion to creation time", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:  "Already finished",
			Status: domain.StatusDone,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.CompletedAt == nil {
			t.Fatal("expected CompletedAt to be set")
		}
		if !created.CompletedAt.Equal(created.CreatedAt) {
			t.Errorf("expected CompletedAt %v to equal CreatedAt %v",
				created.CompletedAt, created.CreatedAt)
		}
	})
}

func TestService_Update(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	create := func(t *testing.T, status domain.Status) *domain.Task {
		t.Helper()
		created, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:    "Subject",
			Status:   status,
			Priority: domain.PriorityMedium,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return created
	}

	t.Run("replaces mutable fields", func(t *testing.T) {
		created := create(t, domain.StatusTodo)
		due := time.Now().UTC().AddDate(0, 0, 3)

		updated, err := svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:       "Renamed",
			Description: "with details",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityHigh,
			DueDate:     &due,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Title != "Renamed" || updated.Priority != domain.PriorityHigh {
			t.Errorf("fields not applied: %+v", updated)
		}
		if updated.Status != domain.StatusInProgress {
			t.Errorf("expected InProgress, got %v", updated.Status)
		}
		if updated.CompletedAt != nil {
			t.Errorf("non-Done transition must leave CompletedAt nil, got %v", updated.CompletedAt)
		}
	})

	t.Run("transition into Done stamps completion time", func(t *testing.T) {
		created := create(t, domain.StatusInProgress)
		before := time.Now().UTC()

		updated, err := svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:  "Subject",
			Status: domain.StatusDone,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.CompletedAt == nil {
			t.Fatal("expected CompletedAt to be set")
		}
		if updated.CompletedAt.Before(before) || time.Since(*updated.CompletedAt) > time.Minute {
			t.Errorf("CompletedAt %v is not the update time", updated.CompletedAt)
		}
	})

	t.Run("Done tasks are immutable", func(t *testing.T) {
		created := create(t, domain.StatusDone)

		_, err := svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:  "Sneaky rename",
			Status: domain.StatusTodo,
		})
		if !errors.Is(err, ErrTaskCompleted) {
			t.Errorf("expected ErrTaskCompleted, got %v", err)
		}

		// A second attempt with different fields fails the same way.
		_, err = svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:    "Another try",
			Status:   domain.StatusDone,
			Priority: domain.PriorityLow,
		})
		if !errors.Is(err, ErrTaskCompleted) {
			t.Errorf("expected ErrTaskCompleted, got %v", err)
		}
	})

	t.Run("unknown task is not found", func(t *testing.T) {
		_, err := svc.Update(ctx, userID, uuid.New().String(), UpdateTaskRequest{Title: "x"})
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("other users' tasks are not found", func(t *testing.T) {
		created := create(t, domain.StatusTodo)
		_, err := svc.Update(ctx, uuid.New().String(), created.ID, UpdateTaskRequest{Title: "x"})
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("a Done task can be deleted", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:  "Finished work",
			Status: domain.StatusDone,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := svc.Delete(ctx, userID, created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := svc.GetByID(ctx, userID, created.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected deleted task to be invisible, got %v", err)
		}
	})

	t.Run("second delete returns not found", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, CreateTaskRequest{Title: "Once"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := svc.Delete(ctx, userID, created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := svc.Delete(ctx, userID, created.ID); !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestService_LifecycleScenarios(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New().String()

	t.Run("filter by status finds only matching tasks", func(t *testing.T) {
		due := time.Now().UTC().AddDate(0, 0, 1)
		_, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:   "Write spec",
			Status:  domain.StatusTodo,
			DueDate: &due,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		page, err := svc.Filter(ctx, userID, Filter{
			Statuses: []domain.Status{domain.StatusInProgress},
		})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.TotalCount != 0 {
			t.Errorf("expected no InProgress tasks, got %d", page.TotalCount)
		}

		page, err = svc.Filter(ctx, userID, Filter{
			Statuses: []domain.Status{domain.StatusTodo},
		})
		if err != nil {
			t.Fatalf("Filter() error = %v", err)
		}
		if page.TotalCount != 1 {
			t.Fatalf("expected 1 Todo task, got %d", page.TotalCount)
		}
		if page.Items[0].Title != "Write spec" {
			t.Errorf("expected %q, got %q", "Write spec", page.Items[0].Title)
		}
	})

	t.Run("complete then attempt a second edit", func(t *testing.T) {
		created, err := svc.Create(ctx, userID, CreateTaskRequest{
			Title:  "Close the books",
			Status: domain.StatusTodo,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if _, err := svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:  "Close the books",
			Status: domain.StatusDone,
		}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		fetched, err := svc.GetByID(ctx, userID, created.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if fetched.CompletedAt == nil {
			t.Error("expected CompletedAt after completing the task")
		}

		_, err = svc.Update(ctx, userID, created.ID, UpdateTaskRequest{
			Title:  "Reopen the books",
			Status: domain.StatusTodo,
		})
		if !errors.Is(err, ErrTaskCompleted) {
			t.Errorf("expected ErrTaskCompleted, got %v", err)
		}
	})
}

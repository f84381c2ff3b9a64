package report

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskPort serves a fixed snapshot, recording how often it was read.
type stubTaskPort struct {
	tasks []task.TaskResponse
	err   error
	calls int
}

func (s *stubTaskPort) ListAll(_ context.Context, _ string) ([]task.TaskResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tasks, nil
}

// ctxCheckingTaskPort fails the snapshot read when the context it receives
// is already cancelled.
type ctxCheckingTaskPort struct {
	tasks []task.TaskResponse
}

func (s *ctxCheckingTaskPort) ListAll(ctx context.Context, _ string) ([]task.TaskResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.tasks, nil
}

func ptr[T any](v T) *T { return &v }

func TestBuildSummary_EmptySnapshot(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	summary := buildSummary(nil, now)

	assert.Equal(t, 0, summary.TotalTasks)
	require.Len(t, summary.Statuses, 3)
	require.Len(t, summary.Priorities, 3)
	for _, bucket := range summary.Statuses {
		assert.Zero(t, bucket.Count)
		assert.Zero(t, bucket.Percentage, "no division by zero when total is 0")
	}
	for _, bucket := range summary.Priorities {
		assert.Zero(t, bucket.Count)
	}
	assert.Zero(t, summary.OverdueTasks)
	assert.Nil(t, summary.AverageCompletionTimeInDays)
}

func TestBuildSummary_StatusBreakdown(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	tasks := []task.TaskResponse{
		{Status: domain.StatusTodo, Priority: domain.PriorityLow},
		{Status: domain.StatusTodo, Priority: domain.PriorityHigh},
		{Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
	}

	summary := buildSummary(tasks, now)

	assert.Equal(t, 3, summary.TotalTasks)

	// Buckets come back in natural order with zero-count buckets present.
	require.Len(t, summary.Statuses, 3)
	assert.Equal(t, domain.StatusTodo, summary.Statuses[0].Status)
	assert.Equal(t, domain.StatusInProgress, summary.Statuses[1].Status)
	assert.Equal(t, domain.StatusDone, summary.Statuses[2].Status)
	assert.Equal(t, 2, summary.Statuses[0].Count)
	assert.Equal(t, 1, summary.Statuses[1].Count)
	assert.Equal(t, 0, summary.Statuses[2].Count)

	assert.InDelta(t, 66.67, summary.Statuses[0].Percentage, 0.001)
	assert.InDelta(t, 33.33, summary.Statuses[1].Percentage, 0.001)

	var pctSum float64
	for _, bucket := range summary.Statuses {
		pctSum += bucket.Percentage
	}
	assert.InDelta(t, 100, pctSum, 0.05, "percentages sum to 100 within rounding")

	require.Len(t, summary.Priorities, 3)
	assert.Equal(t, 1, summary.Priorities[0].Count) // low
	assert.Equal(t, 0, summary.Priorities[1].Count) // medium
	assert.Equal(t, 2, summary.Priorities[2].Count) // high
}

func TestBuildSummary_OverdueAndWindows(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	weekEnd := day.AddDate(0, 0, 7).Add(-time.Second)

	tasks := []task.TaskResponse{
		// Overdue: due yesterday, not Done.
		{Status: domain.StatusTodo, DueDate: ptr(now.AddDate(0, 0, -1))},
		// Not overdue: past due but Done.
		{Status: domain.StatusDone, DueDate: ptr(now.AddDate(0, 0, -2)), CompletedAt: ptr(now)},
		// No due date at all.
		{Status: domain.StatusTodo},
		// Inside the week window (and therefore the month window too).
		{Status: domain.StatusInProgress, DueDate: ptr(now.AddDate(0, 0, 3))},
		// Exactly at the end of the week window.
		{Status: domain.StatusTodo, DueDate: ptr(weekEnd)},
		// Month window only.
		{Status: domain.StatusTodo, DueDate: ptr(now.AddDate(0, 0, 20))},
		// Beyond the month window.
		{Status: domain.StatusTodo, DueDate: ptr(now.AddDate(0, 2, 0))},
	}

	summary := buildSummary(tasks, now)

	assert.Equal(t, 1, summary.OverdueTasks)
	assert.Equal(t, 2, summary.CompletingThisWeek)
	assert.Equal(t, 3, summary.CompletingThisMonth)
}

func TestBuildSummary_AverageCompletionTime(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	tasks := []task.TaskResponse{
		{
			Status:      domain.StatusDone,
			CreatedAt:   now.AddDate(0, 0, -10),
			CompletedAt: ptr(now.AddDate(0, 0, -8)), // 2 days
		},
		{
			Status:      domain.StatusDone,
			CreatedAt:   now.AddDate(0, 0, -10),
			CompletedAt: ptr(now.AddDate(0, 0, -6)), // 4 days
		},
		// Not Done: excluded from the average.
		{Status: domain.StatusInProgress, CreatedAt: now.AddDate(0, 0, -30)},
	}

	summary := buildSummary(tasks, now)

	require.NotNil(t, summary.AverageCompletionTimeInDays)
	assert.InDelta(t, 3.0, *summary.AverageCompletionTimeInDays, 0.001)
}

func TestBuildSummary_AverageRounding(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	tasks := []task.TaskResponse{
		{
			Status:      domain.StatusDone,
			CreatedAt:   now,
			CompletedAt: ptr(now.Add(8 * time.Hour)), // 0.333... days
		},
	}

	summary := buildSummary(tasks, now)

	require.NotNil(t, summary.AverageCompletionTimeInDays)
	assert.Equal(t, 0.33, *summary.AverageCompletionTimeInDays)
}

func TestService_Summary(t *testing.T) {
	t.Run("computes from one snapshot read", func(t *testing.T) {
		stub := &stubTaskPort{
			tasks: []task.TaskResponse{
				{Status: domain.StatusTodo, Priority: domain.PriorityMedium, DueDate: ptr(time.Now().UTC().AddDate(0, 0, -1))},
				{Status: domain.StatusTodo, Priority: domain.PriorityMedium},
			},
		}
		svc := NewService(stub, nil)

		summary, err := svc.Summary(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 2, summary.TotalTasks)
		assert.Equal(t, 1, summary.OverdueTasks)
		assert.Equal(t, 1, stub.calls, "all metrics come from a single snapshot")
	})

	t.Run("survives a cancelled caller", func(t *testing.T) {
		stub := &ctxCheckingTaskPort{
			tasks: []task.TaskResponse{
				{Status: domain.StatusTodo, Priority: domain.PriorityMedium},
			},
		}
		svc := NewService(stub, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := svc.Summary(ctx, "user-1")
		require.NoError(t, err, "shared computation must not die with one caller's context")
		assert.Equal(t, 1, summary.TotalTasks)
	})

	t.Run("propagates snapshot failures", func(t *testing.T) {
		stub := &stubTaskPort{err: errors.New("store is down")}
		svc := NewService(stub, nil)

		_, err := svc.Summary(context.Background(), "user-1")
		require.Error(t, err)
		assert.ErrorContains(t, err, "store is down")
	})
}

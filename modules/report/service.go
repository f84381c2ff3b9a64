package report

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	"github.com/WaleedKhaledKhaled/TasksManager/modules/task"
	"golang.org/x/sync/singleflight"
)

// Service computes progress summaries over a user's visible tasks. The
// computation itself is stateless; an optional cache in front of it keeps a
// recent summary per user, and a singleflight group collapses concurrent
// recomputations for the same user into one.
type Service struct {
	tasks task.TaskPort
	cache *summaryCache // nil when caching is disabled
	group singleflight.Group
}

// NewService creates a new report Service. cache may be nil.
func NewService(tasks task.TaskPort, cache *summaryCache) *Service {
	return &Service{
		tasks: tasks,
		cache: cache,
	}
}

// Summary returns the statistical snapshot for one user. All metrics are
// derived from a single materialized read of the user's tasks.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return cached, nil
		}
	}

	v, err, _ := s.group.Do(userID, func() (any, error) {
		// The result is shared with every collapsed caller, so the
		// computation must outlive whichever request started it.
		ctx := context.WithoutCancel(ctx)

		snapshot, err := s.tasks.ListAll(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load task snapshot: %w", err)
		}

		summary := buildSummary(snapshot, time.Now().UTC())

		if s.cache != nil {
			// Best effort: a cache write failure never fails the report.
			if err := s.cache.Set(ctx, userID, summary); err != nil {
				log.Printf("[report] cache write failed: %v", err)
			}
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

// buildSummary computes every metric from one snapshot, relative to now.
// Keeping it pure makes the window and rounding rules directly testable.
func buildSummary(tasks []task.TaskResponse, now time.Time) *Summary {
	total := len(tasks)

	statusCounts := make(map[domain.Status]int)
	priorityCounts := make(map[domain.Priority]int)

	// End-of-window bounds anchored at today's midnight, inclusive: the
	// last second of the 7th day ahead and of the calendar-month window.
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekEnd := day.AddDate(0, 0, 7).Add(-time.Second)
	monthEnd := day.AddDate(0, 1, 0).Add(-time.Second)

	var overdue, dueThisWeek, dueThisMonth int
	var completedDays []float64

	for _, t := range tasks {
		statusCounts[t.Status]++
		priorityCounts[t.Priority]++

		if t.DueDate != nil {
			due := *t.DueDate
			if due.Before(now) && t.Status != domain.StatusDone {
				overdue++
			}
			if !due.Before(now) && !due.After(weekEnd) {
				dueThisWeek++
			}
			if !due.Before(now) && !due.After(monthEnd) {
				dueThisMonth++
			}
		}

		if t.Status == domain.StatusDone && t.CompletedAt != nil {
			completedDays = append(completedDays, t.CompletedAt.Sub(t.CreatedAt).Hours()/24)
		}
	}

	statuses := make([]StatusSummary, 0, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		count := statusCounts[status]
		var pct float64
		if total > 0 {
			pct = round2(float64(count) / float64(total) * 100)
		}
		statuses = append(statuses, StatusSummary{
			Status:     status,
			Count:      count,
			Percentage: pct,
		})
	}

	priorities := make([]PrioritySummary, 0, len(domain.Priorities()))
	for _, priority := range domain.Priorities() {
		priorities = append(priorities, PrioritySummary{
			Priority: priority,
			Count:    priorityCounts[priority],
		})
	}

	var avgCompletion *float64
	if len(completedDays) > 0 {
		var sum float64
		for _, d := range completedDays {
			sum += d
		}
		avg := round2(sum / float64(len(completedDays)))
		avgCompletion = &avg
	}

	return &Summary{
		TotalTasks:                  total,
		Statuses:                    statuses,
		Priorities:                  priorities,
		OverdueTasks:                overdue,
		CompletingThisWeek:          dueThisWeek,
		CompletingThisMonth:         dueThisMonth,
		AverageCompletionTimeInDays: avgCompletion,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

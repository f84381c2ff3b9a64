package report

import (
	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
)

// SummaryRequest is the request for a progress summary.
type SummaryRequest struct {
	UserID string `json:"user_id"`
}

// StatusSummary is one status bucket of the report. Every status appears
// exactly once, in natural order, even when its count is zero.
type StatusSummary struct {
	Status     domain.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// PrioritySummary is one priority bucket of the report.
type PrioritySummary struct {
	Priority domain.Priority `json:"priority"`
	Count    int             `json:"count"`
}

// Summary is a point-in-time statistical snapshot of one user's visible
// tasks. Every metric reflects the same materialized snapshot.
type Summary struct {
	TotalTasks                  int               `json:"total_tasks"`
	Statuses                    []StatusSummary   `json:"statuses"`
	Priorities                  []PrioritySummary `json:"priorities"`
	OverdueTasks                int               `json:"overdue_tasks"`
	CompletingThisWeek          int               `json:"completing_this_week"`
	CompletingThisMonth         int               `json:"completing_this_month"`
	AverageCompletionTimeInDays *float64          `json:"average_completion_time_in_days"`
}

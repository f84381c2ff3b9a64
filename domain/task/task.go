package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a task. The integer values define the
// total order used for sorting and report bucket ordering, independent of
// declaration order conventions elsewhere.
type Status int

const (
	StatusTodo Status = iota
	StatusInProgress
	StatusDone
)

var statusNames = map[Status]string{
	StatusTodo:       "todo",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
}

// Statuses lists all statuses in their natural order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus parses a status name. Matching is case-insensitive and
// accepts both "in_progress" and "inprogress".
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "todo":
		return StatusTodo, nil
	case "in_progress", "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return StatusTodo, fmt.Errorf("unknown status %q", value)
}

// MarshalJSON encodes the status as its string name.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid status %d", int(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its string name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority is the urgency of a task, ordered from Low to High.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = map[Priority]string{
	PriorityLow:    "low",
	PriorityMedium: "medium",
	PriorityHigh:   "high",
}

// Priorities lists all priorities in their natural order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

// ParsePriority parses a priority name, case-insensitively.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return PriorityLow, fmt.Errorf("unknown priority %q", value)
}

// MarshalJSON encodes the priority as its string name.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid priority %d", int(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a priority from its string name.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Task represents a task owned by a single user.
//
// Soft deletion uses gorm.DeletedAt: a deleted row stays in the store but is
// excluded from every read path. The owning user and CreatedAt never change
// after creation. CompletedAt is managed exclusively by the task service.
type Task struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"size:2000" json:"description,omitempty"`
	Status      Status         `gorm:"not null;default:0;index:idx_tasks_user_status,priority:2" json:"status"`
	Priority    Priority       `gorm:"not null;default:1;index:idx_tasks_user_priority,priority:2" json:"priority"`
	CreatedAt   time.Time      `gorm:"index:idx_tasks_user_created,priority:2" json:"created_at"`
	DueDate     *time.Time     `gorm:"index:idx_tasks_user_due,priority:2" json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      string         `gorm:"size:36;not null;index:idx_tasks_user_status,priority:1;index:idx_tasks_user_priority,priority:1;index:idx_tasks_user_created,priority:1;index:idx_tasks_user_due,priority:1" json:"-"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

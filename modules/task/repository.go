package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/WaleedKhaledKhaled/TasksManager/domain/task"
	"gorm.io/gorm"
)

// Filter describes a bounded, ordered query over one user's tasks. Empty
// status/priority sets mean "no restriction"; range bounds are inclusive and
// each end is optional.
type Filter struct {
	Search      string            `json:"search,omitempty"`
	Statuses    []domain.Status   `json:"statuses,omitempty"`
	Priorities  []domain.Priority `json:"priorities,omitempty"`
	CreatedFrom *time.Time        `json:"created_from,omitempty"`
	CreatedTo   *time.Time        `json:"created_to,omitempty"`
	DueFrom     *time.Time        `json:"due_from,omitempty"`
	DueTo       *time.Time        `json:"due_to,omitempty"`
	SortBy      string            `json:"sort_by,omitempty"`
	Desc        bool              `json:"desc,omitempty"`
	Page        int               `json:"page,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
}

// Page is one slice of a filtered result set.
type Page struct {
	Items      []domain.Task
	TotalCount int64
	Number     int
	Size       int
	TotalPages int
}

// Store is the persistence capability the task service relies on. All
// operations are scoped to an owning user; a soft-deleted row is invisible
// to every method.
type Store interface {
	Insert(ctx context.Context, t *domain.Task) error
	FindOwned(ctx context.Context, userID, taskID string) (*domain.Task, error)
	Save(ctx context.Context, t *domain.Task) error
	SoftDeleteOwned(ctx context.Context, userID, taskID string) error
	ListOwned(ctx context.Context, userID string) ([]domain.Task, error)
	Query(ctx context.Context, userID string, f Filter) (*Page, error)
}

// Repository implements Store using GORM. Soft deletion relies on
// gorm.DeletedAt, which excludes deleted rows from all reads automatically.
type Repository struct {
	db *gorm.DB
}

// Compile-time interface check.
var _ Store = (*Repository)(nil)

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Insert saves a new task.
func (r *Repository) Insert(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// FindOwned loads a task scoped to its owner. A missing, deleted or
// foreign-owned task is reported as ErrTaskNotFound.
func (r *Repository) FindOwned(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("id = ?", taskID).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Save persists the full state of an already-loaded task row.
func (r *Repository) Save(ctx context.Context, t *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// SoftDeleteOwned marks a task deleted without removing the row. Deleting a
// task that is already deleted, missing or foreign-owned returns
// ErrTaskNotFound.
func (r *Repository) SoftDeleteOwned(ctx context.Context, userID, taskID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Task{}, "id = ?", taskID)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListOwned returns every visible task of a user, most recently created
// first.
func (r *Repository) ListOwned(ctx context.Context, userID string) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Query applies every present filter predicate as a logical AND, sorts by
// the requested key and slices out one page. The total match count is taken
// before pagination so every page reports the same totals.
//
// Free-text search is a case-insensitive substring match over title and
// description.
func (r *Repository) Query(ctx context.Context, userID string, f Filter) (*Page, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("user_id = ?", userID)
	q = applyFilter(q, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	page, size := clampPaging(f.Page, f.PageSize)
	totalPages := int((total + int64(size) - 1) / int64(size))

	var tasks []domain.Task
	err := q.Order(orderClause(f.SortBy, f.Desc)).
		Order("id ASC"). // stable tiebreak keeps repeated queries deterministic
		Offset((page - 1) * size).
		Limit(size).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	return &Page{
		Items:      tasks,
		TotalCount: total,
		Number:     page,
		Size:       size,
		TotalPages: totalPages,
	}, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if len(f.Priorities) > 0 {
		q = q.Where("priority IN ?", f.Priorities)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return q
}

// clampPaging normalizes paging inputs instead of rejecting them: the page
// number floors at 1 and the page size is clamped into [1, 100].
func clampPaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// orderClause maps a sort key to its column. Unknown keys fall back to
// creation time, mirroring the list endpoint's default ordering.
func orderClause(sortBy string, desc bool) string {
	var column string
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "duedate", "due_date":
		column = "due_date"
	case "priority":
		column = "priority"
	case "status":
		column = "status"
	case "title":
		column = "title"
	default:
		column = "created_at"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

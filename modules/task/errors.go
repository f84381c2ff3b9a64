package task

import "errors"

var (
	// ErrTaskNotFound is returned when a task does not exist, was deleted,
	// or belongs to another user. The three cases are indistinguishable to
	// the caller so that task existence never leaks across users.
	ErrTaskNotFound = errors.New("task was not found")

	// ErrTaskCompleted is returned when a mutation targets a task whose
	// status is Done. Done is terminal: completed tasks cannot be edited.
	ErrTaskCompleted = errors.New("completed tasks cannot be edited")
)

package repositories

import (
	"time"

	"tugas/internal/models"
)

// TaskFilter describes a single listing request after the service layer has
// resolved defaults and translated the sort key to a store column.
type TaskFilter struct {
	Title      string // case-insensitive substring match, empty means no filter
	Status     string // exact match, empty means no filter
	SortColumn string // store column name, already validated by the caller
	SortOrder  string // "asc" or "desc"
	Offset     int
	Limit      int
}

// TaskUpdate carries the mutable fields of a task. All fields are written on
// update; the route is a full PUT replacement of these fields.
type TaskUpdate struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      string
}

// TaskRepository defines the interface for task data access. All reads and
// writes are scoped to the owning user: a task belonging to another user is
// indistinguishable from a missing one.
type TaskRepository interface {
	// Create persists the task together with its tag associations. Tags are
	// upserted by name; task and associations become visible atomically.
	Create(task *models.Task, tagNames []string) error
	GetByID(id, userID string) (*models.Task, error)
	// List returns one page of tasks plus the total number of rows matching
	// the filter before pagination.
	List(userID string, filter TaskFilter) ([]models.Task, int64, error)
	Update(id, userID string, update TaskUpdate) (*models.Task, error)
	// Delete removes the task and its tag associations, returning the
	// deleted task.
	Delete(id, userID string) (*models.Task, error)
}

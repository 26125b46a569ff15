package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"tugas/internal/models"

	"github.com/google/uuid"
)

// MockTaskRepository is an in-memory implementation of TaskRepository. It
// mirrors the filtering, sorting, and pagination behavior of the GORM
// implementation so services can be tested without a database.
type MockTaskRepository struct {
	tasks map[string]models.Task
	tags  map[string]models.Tag // keyed by name
	last  time.Time             // last assigned creation time
	mu    sync.RWMutex
}

// NewMockTaskRepository creates a new instance of MockTaskRepository.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		tasks: make(map[string]models.Task),
		tags:  make(map[string]models.Tag),
	}
}

// Create adds a new task and upserts its tags by name.
func (r *MockTaskRepository) Create(task *models.Task, tagNames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	// Strictly increasing timestamps so creation-order sorting stays
	// deterministic even when the clock resolution is coarse.
	now := time.Now()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now
	task.CreatedAt = now
	task.UpdatedAt = now

	task.Tags = task.Tags[:0]
	for _, name := range tagNames {
		tag, ok := r.tags[name]
		if !ok {
			tag = models.Tag{ID: uuid.New().String(), Name: name}
			r.tags[name] = tag
		}
		task.Tags = append(task.Tags, tag)
	}

	r.tasks[task.ID] = *task
	return nil
}

// GetByID returns a task by its ID, scoped to the owner.
func (r *MockTaskRepository) GetByID(id, userID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, ErrNotFound
	}
	return &task, nil
}

// List returns one page of the owner's tasks plus the unpaginated match count.
func (r *MockTaskRepository) List(userID string, filter TaskFilter) ([]models.Task, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Task, 0)
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Title != "" && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		matched = append(matched, task)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if filter.SortOrder == "desc" {
			a, b = b, a
		}
		switch filter.SortColumn {
		case "due_date":
			return a.DueDate.Before(b.DueDate)
		case "title":
			return a.Title < b.Title
		case "status":
			return a.Status < b.Status
		case "priority":
			return a.Priority < b.Priority
		default: // created_at
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	total := int64(len(matched))
	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Update modifies an existing task, scoped to the owner.
func (r *MockTaskRepository) Update(id, userID string, update TaskUpdate) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, ErrNotFound
	}
	task.Title = update.Title
	task.Description = update.Description
	task.DueDate = update.DueDate
	task.Status = update.Status
	task.UpdatedAt = time.Now()
	r.tasks[id] = task
	return &task, nil
}

// Delete removes a task, scoped to the owner, and returns it.
func (r *MockTaskRepository) Delete(id, userID string) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, ErrNotFound
	}
	delete(r.tasks, id)
	return &task, nil
}

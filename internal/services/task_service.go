package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"tugas/internal/models"
	"tugas/internal/repositories"
	"tugas/pkg/rabbitmq"
)

// sortColumns maps the sort keys accepted by the API onto store column
// names. Anything outside this table is rejected before it reaches the
// store, so caller input is never interpolated into a query.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

// TaskQuery holds the raw listing parameters as supplied by the caller.
// Zero values mean "use the default".
type TaskQuery struct {
	Page      int
	PageSize  int
	SortField string
	SortOrder string
	Title     string
	Status    string
}

// PageMeta describes one page of a listing result. TotalTasks counts rows
// matching the filters before pagination.
type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalTasks int64 `json:"totalTasks"`
	TotalPages int64 `json:"totalPages"`
}

// TaskPage is a listing result envelope.
type TaskPage struct {
	Data []models.Task `json:"data"`
	Meta PageMeta      `json:"meta"`
}

// CreateTaskInput holds the fields for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      string
	Priority    string
	Tags        []string
}

// UpdateTaskInput holds the replaceable fields of a task. Priority and tags
// are fixed at creation time.
type UpdateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Status      string
}

// TaskService handles business logic related to tasks.
type TaskService struct {
	taskRepo repositories.TaskRepository
	mqClient *rabbitmq.Client
}

// NewTaskService creates a new TaskService. The MQ client may be nil, in
// which case lifecycle events are skipped.
func NewTaskService(taskRepo repositories.TaskRepository, mqClient *rabbitmq.Client) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		mqClient: mqClient,
	}
}

// List returns one page of the owner's tasks. Defaults: page 1, pageSize 10,
// sorted by creation time ascending. An out-of-range page yields an empty
// data slice with accurate meta, not an error.
func (s *TaskService) List(userID string, q TaskQuery) (*TaskPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	if q.SortField == "" {
		q.SortField = "createdAt"
	}
	if q.SortOrder == "" {
		q.SortOrder = "asc"
	}

	column, ok := sortColumns[q.SortField]
	if !ok {
		return nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidInput, q.SortField)
	}
	if q.SortOrder != "asc" && q.SortOrder != "desc" {
		return nil, fmt.Errorf("%w: sort order must be asc or desc", ErrInvalidInput)
	}
	if q.Status != "" && !models.ValidStatus(q.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
	}

	filter := repositories.TaskFilter{
		Title:      q.Title,
		Status:     q.Status,
		SortColumn: column,
		SortOrder:  q.SortOrder,
		Offset:     (q.Page - 1) * q.PageSize,
		Limit:      q.PageSize,
	}
	tasks, total, err := s.taskRepo.List(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	pageSize := int64(q.PageSize)
	return &TaskPage{
		Data: tasks,
		Meta: PageMeta{
			Page:       q.Page,
			PageSize:   q.PageSize,
			TotalTasks: total,
			TotalPages: (total + pageSize - 1) / pageSize,
		},
	}, nil
}

// Create validates the input, persists the task with its tags, and publishes
// a task.created event.
func (s *TaskService) Create(userID string, input CreateTaskInput) (*models.Task, error) {
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if err := validateTaskFields(input.Title, input.Description, input.Status); err != nil {
		return nil, err
	}
	if !models.ValidPriority(input.Priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
		Priority:    input.Priority,
		UserID:      userID,
	}
	if err := s.taskRepo.Create(task, dedupe(input.Tags)); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishEvent("task.created", task)
	return task, nil
}

// GetByID retrieves a single task scoped to its owner.
func (s *TaskService) GetByID(userID, taskID string) (*models.Task, error) {
	return s.taskRepo.GetByID(taskID, userID)
}

// Update replaces the mutable fields of a task, scoped to its owner, and
// publishes a task.updated event.
func (s *TaskService) Update(userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if err := validateTaskFields(input.Title, input.Description, input.Status); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(taskID, userID, repositories.TaskUpdate{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      input.Status,
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("task.updated", task)
	return task, nil
}

// Delete removes a task, scoped to its owner, returning the deleted task and
// publishing a task.deleted event.
func (s *TaskService) Delete(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.Delete(taskID, userID)
	if err != nil {
		return nil, err
	}

	s.publishEvent("task.deleted", task)
	return task, nil
}

// validateTaskFields enforces the field bounds shared by create and update
// before any store access.
func validateTaskFields(title, description, status string) error {
	if len(title) < 3 || len(title) > 100 {
		return fmt.Errorf("%w: title must be between 3 and 100 characters", ErrInvalidInput)
	}
	if len(description) < 10 || len(description) > 500 {
		return fmt.Errorf("%w: description must be between 10 and 500 characters", ErrInvalidInput)
	}
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	return nil
}

// dedupe removes duplicate tag names while preserving order.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// publishEvent emits a task lifecycle event. Publish failures are logged and
// never surfaced to API callers.
func (s *TaskService) publishEvent(routingKey string, task *models.Task) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"taskId": task.ID,
		"userId": task.UserID,
		"status": task.Status,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for task %s: %v", routingKey, task.ID, err)
		return
	}
	if err := s.mqClient.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event for task %s: %v", routingKey, task.ID, err)
	}
}

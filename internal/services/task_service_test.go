package services_test

import (
	"fmt"
	"testing"
	"time"

	"tugas/internal/models"
	"tugas/internal/repositories"
	"tugas/internal/services"

	"github.com/stretchr/testify/assert"
)

func newTaskService() *services.TaskService {
	return services.NewTaskService(repositories.NewMockTaskRepository(), nil)
}

func createTask(t *testing.T, svc *services.TaskService, userID, title string, input services.CreateTaskInput) *models.Task {
	t.Helper()
	input.Title = title
	if input.Description == "" {
		input.Description = "A sufficiently long description"
	}
	if input.Status == "" {
		input.Status = models.StatusPending
	}
	if input.DueDate.IsZero() {
		input.DueDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	task, err := svc.Create(userID, input)
	assert.NoError(t, err)
	return task
}

func TestTaskService_CreateValidation(t *testing.T) {
	svc := newTaskService()
	valid := services.CreateTaskInput{
		Title:       "Buy milk",
		Description: "Get milk from store",
		DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusPending,
	}

	cases := []struct {
		name   string
		mutate func(*services.CreateTaskInput)
	}{
		{"title too short", func(in *services.CreateTaskInput) { in.Title = "ab" }},
		{"title too long", func(in *services.CreateTaskInput) {
			for len(in.Title) <= 100 {
				in.Title += "x"
			}
		}},
		{"description too short", func(in *services.CreateTaskInput) { in.Description = "short" }},
		{"unknown status", func(in *services.CreateTaskInput) { in.Status = "DONE" }},
		{"unknown priority", func(in *services.CreateTaskInput) { in.Priority = "URGENT" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid
			tc.mutate(&input)
			_, err := svc.Create("user-1", input)
			assert.ErrorIs(t, err, services.ErrInvalidInput)
		})
	}
}

func TestTaskService_CreateDefaults(t *testing.T) {
	svc := newTaskService()

	task := createTask(t, svc, "user-1", "Buy milk", services.CreateTaskInput{
		Description: "Get milk from store",
	})
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, "user-1", task.UserID)
	assert.NotEmpty(t, task.ID)
}

func TestTaskService_CreateWithTags(t *testing.T) {
	svc := newTaskService()

	task := createTask(t, svc, "user-1", "Clean garage", services.CreateTaskInput{
		Tags: []string{"urgent", "home", "urgent"},
	})

	fetched, err := svc.GetByID("user-1", task.ID)
	assert.NoError(t, err)
	names := make([]string, 0, len(fetched.Tags))
	for _, tag := range fetched.Tags {
		names = append(names, tag.Name)
	}
	// Duplicate names collapse to a single association.
	assert.ElementsMatch(t, []string{"urgent", "home"}, names)

	// A second task reuses the existing tag record.
	other := createTask(t, svc, "user-1", "Fix the fence", services.CreateTaskInput{
		Tags: []string{"urgent"},
	})
	assert.Equal(t, findTag(t, fetched.Tags, "urgent").ID, findTag(t, other.Tags, "urgent").ID)
}

func findTag(t *testing.T, tags []models.Tag, name string) models.Tag {
	t.Helper()
	for _, tag := range tags {
		if tag.Name == name {
			return tag
		}
	}
	t.Fatalf("tag %q not found", name)
	return models.Tag{}
}

func TestTaskService_ListPagination(t *testing.T) {
	svc := newTaskService()
	for i := 0; i < 7; i++ {
		createTask(t, svc, "user-1", fmt.Sprintf("Task number %02d", i), services.CreateTaskInput{})
	}

	page, err := svc.List("user-1", services.TaskQuery{Page: 1, PageSize: 3})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 3)
	assert.Equal(t, int64(7), page.Meta.TotalTasks)
	assert.Equal(t, int64(3), page.Meta.TotalPages)

	page, err = svc.List("user-1", services.TaskQuery{Page: 3, PageSize: 3})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 1)

	// An out-of-range page is not an error: empty data, accurate meta.
	page, err = svc.List("user-1", services.TaskQuery{Page: 9, PageSize: 3})
	assert.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(7), page.Meta.TotalTasks)
	assert.Equal(t, int64(3), page.Meta.TotalPages)
}

func TestTaskService_ListDefaults(t *testing.T) {
	svc := newTaskService()
	for i := 0; i < 12; i++ {
		createTask(t, svc, "user-1", fmt.Sprintf("Task number %02d", i), services.CreateTaskInput{})
	}

	page, err := svc.List("user-1", services.TaskQuery{})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Equal(t, 10, page.Meta.PageSize)
	assert.Equal(t, int64(12), page.Meta.TotalTasks)
	assert.Equal(t, int64(2), page.Meta.TotalPages)

	// Default sort is creation time ascending.
	assert.Equal(t, "Task number 00", page.Data[0].Title)
}

func TestTaskService_ListOwnerScoping(t *testing.T) {
	svc := newTaskService()
	createTask(t, svc, "user-a", "Task for user A", services.CreateTaskInput{})
	createTask(t, svc, "user-b", "Task for user B", services.CreateTaskInput{})

	page, err := svc.List("user-a", services.TaskQuery{})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, "user-a", page.Data[0].UserID)
	assert.Equal(t, int64(1), page.Meta.TotalTasks)
}

func TestTaskService_ListFilters(t *testing.T) {
	svc := newTaskService()
	createTask(t, svc, "user-1", "Buy milk", services.CreateTaskInput{Status: models.StatusPending})
	createTask(t, svc, "user-1", "Buy MILK again", services.CreateTaskInput{Status: models.StatusCompleted})
	createTask(t, svc, "user-1", "Walk the dog", services.CreateTaskInput{Status: models.StatusPending})

	// Title filter is a case-insensitive substring match.
	page, err := svc.List("user-1", services.TaskQuery{Title: "milk"})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(2), page.Meta.TotalTasks)

	// Status filter is an exact match and composes with the title filter.
	page, err = svc.List("user-1", services.TaskQuery{Title: "milk", Status: models.StatusCompleted})
	assert.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, "Buy MILK again", page.Data[0].Title)

	_, err = svc.List("user-1", services.TaskQuery{Status: "DONE"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestTaskService_ListSort(t *testing.T) {
	svc := newTaskService()
	createTask(t, svc, "user-1", "Banana bread", services.CreateTaskInput{
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	createTask(t, svc, "user-1", "Apple pie time", services.CreateTaskInput{
		DueDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	createTask(t, svc, "user-1", "Cherry crumble", services.CreateTaskInput{
		DueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})

	page, err := svc.List("user-1", services.TaskQuery{SortField: "title", SortOrder: "desc"})
	assert.NoError(t, err)
	assert.Equal(t, "Cherry crumble", page.Data[0].Title)
	assert.Equal(t, "Apple pie time", page.Data[2].Title)

	page, err = svc.List("user-1", services.TaskQuery{SortField: "dueDate"})
	assert.NoError(t, err)
	assert.Equal(t, "Apple pie time", page.Data[0].Title)
	assert.Equal(t, "Banana bread", page.Data[2].Title)
}

func TestTaskService_ListRejectsUnknownSortField(t *testing.T) {
	svc := newTaskService()

	// Sort keys outside the allow-list never reach the store, including
	// attempts to probe internal column names.
	for _, field := range []string{"password", "user_id", "id; DROP TABLE tasks"} {
		_, err := svc.List("user-1", services.TaskQuery{SortField: field})
		assert.ErrorIs(t, err, services.ErrInvalidInput)
	}

	_, err := svc.List("user-1", services.TaskQuery{SortOrder: "sideways"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestTaskService_Update(t *testing.T) {
	svc := newTaskService()
	task := createTask(t, svc, "user-1", "Buy milk", services.CreateTaskInput{})

	updated, err := svc.Update("user-1", task.ID, services.UpdateTaskInput{
		Title:       "Buy oat milk",
		Description: "Get oat milk from the store",
		DueDate:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusCompleted,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Validation applies before the store is touched.
	_, err = svc.Update("user-1", task.ID, services.UpdateTaskInput{
		Title:       "ab",
		Description: "Get oat milk from the store",
		Status:      models.StatusCompleted,
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Update("user-1", "missing-id", services.UpdateTaskInput{
		Title:       "Buy oat milk",
		Description: "Get oat milk from the store",
		Status:      models.StatusCompleted,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Update is owner scoped, same as get and list: another user's task
	// reads as not found.
	_, err = svc.Update("user-2", task.ID, services.UpdateTaskInput{
		Title:       "Buy oat milk",
		Description: "Get oat milk from the store",
		Status:      models.StatusCompleted,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	svc := newTaskService()
	task := createTask(t, svc, "user-1", "Buy milk", services.CreateTaskInput{})

	// Delete is owner scoped like update.
	_, err := svc.Delete("user-2", task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	deleted, err := svc.Delete("user-1", task.ID)
	assert.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = svc.Delete("user-1", task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.GetByID("user-1", task.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

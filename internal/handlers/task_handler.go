package handlers

import (
	"errors"
	"log"
	"time"

	"tugas/internal/repositories"
	"tugas/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles HTTP requests for tasks. All routes are mounted
// behind the auth middleware, which stores the caller's user id in the
// request locals.
type TaskHandler struct {
	service  *services.TaskService
	validate *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the task routes with the Fiber app.
func (h *TaskHandler) RegisterRoutes(router fiber.Router) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Get("/", h.HandleListTasks)
	taskRoutes.Post("/", h.HandleCreateTask)
	taskRoutes.Get("/:id", h.HandleGetTaskDetails)
	taskRoutes.Put("/:id", h.HandleUpdateTask)
	taskRoutes.Delete("/:taskId", h.HandleDeleteTask)
}

// CreateTaskRequest represents the request body for task creation.
type CreateTaskRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=100"`
	Description string   `json:"description" validate:"required,min=10,max=500"`
	DueDate     string   `json:"dueDate" validate:"required"`
	Status      string   `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    string   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Tags        []string `json:"tags" validate:"omitempty,dive,min=1,max=100"`
}

// HandleCreateTask creates a new task for the authenticated user.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid due date, expected an ISO 8601 date",
		})
	}

	task, err := h.service.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error creating task: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while creating the task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"task":    task,
	})
}

// HandleListTasks returns one page of the authenticated user's tasks with
// pagination metadata.
func (h *TaskHandler) HandleListTasks(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	query := services.TaskQuery{
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("pageSize", 10),
		SortField: c.Query("sortField", "createdAt"),
		SortOrder: c.Query("sortOrder", "asc"),
		Title:     c.Query("title"),
		Status:    c.Query("status"),
	}

	page, err := h.service.List(userID, query)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error listing tasks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while listing tasks",
		})
	}

	return c.JSON(page)
}

// HandleGetTaskDetails returns a single task owned by the authenticated
// user. A task owned by someone else reads as not found.
func (h *TaskHandler) HandleGetTaskDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	task, err := h.service.GetByID(userID, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Task not found",
			})
		}
		log.Printf("Error getting task %s: %v", taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An error occurred while retrieving the task",
		})
	}

	return c.JSON(fiber.Map{
		"data": task,
	})
}

// UpdateTaskRequest represents the request body for a full task update.
// Priority and tags are fixed at creation time.
type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	DueDate     string `json:"dueDate" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// HandleUpdateTask replaces the mutable fields of a task owned by the
// authenticated user.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("id")

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid due date, expected an ISO 8601 date",
		})
	}

	task, err := h.service.Update(userID, taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		log.Printf("Error updating task %s: %v", taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while updating the task",
		})
	}

	return c.JSON(task)
}

// HandleDeleteTask deletes a task owned by the authenticated user and
// returns the deleted task.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	taskID := c.Params("taskId")

	task, err := h.service.Delete(userID, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Task not found",
			})
		}
		log.Printf("Error deleting task %s: %v", taskID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "An error occurred while deleting the task",
		})
	}

	return c.JSON(task)
}

// parseDueDate accepts an RFC 3339 timestamp or a bare date.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

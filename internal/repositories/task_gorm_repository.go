package repositories

import (
	"errors"
	"fmt"
	"strings"

	"tugas/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create persists a task and associates it with the named tags inside a
// single transaction. Tags are upserted in one batch (ON CONFLICT DO
// NOTHING), so the task is never visible with only part of its tags.
func (r *GORMTaskRepository) Create(task *models.Task, tagNames []string) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(tagNames) > 0 {
			tags := make([]models.Tag, 0, len(tagNames))
			for _, name := range tagNames {
				tags = append(tags, models.Tag{ID: uuid.New().String(), Name: name})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&tags).Error; err != nil {
				return fmt.Errorf("failed to upsert tags: %w", err)
			}
			// Re-read so pre-existing tags keep their original ids.
			tags = tags[:0]
			if err := tx.Where("name IN ?", tagNames).Find(&tags).Error; err != nil {
				return fmt.Errorf("failed to load tags: %w", err)
			}
			task.Tags = tags
		}
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	return err
}

// GetByID retrieves a single task by id, scoped to its owner.
func (r *GORMTaskRepository) GetByID(id, userID string) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Tags").First(&task, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// List returns one page of the owner's tasks plus the unpaginated match
// count. The count is recomputed on every call.
func (r *GORMTaskRepository) List(userID string, filter TaskFilter) ([]models.Task, int64, error) {
	var total int64
	if err := r.scope(userID, filter).Model(&models.Task{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []models.Task
	err := r.scope(userID, filter).
		Order(fmt.Sprintf("%s %s", filter.SortColumn, filter.SortOrder)).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Preload("Tags").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// scope builds the owner + filter conditions shared by Count and Find.
func (r *GORMTaskRepository) scope(userID string, filter TaskFilter) *gorm.DB {
	q := r.db.Where("user_id = ?", userID)
	if filter.Title != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	return q
}

// Update writes the replaceable fields of a task, scoped to its owner.
func (r *GORMTaskRepository) Update(id, userID string, update TaskUpdate) (*models.Task, error) {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"title":       update.Title,
			"description": update.Description,
			"due_date":    update.DueDate,
			"status":      update.Status,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id, userID)
}

// Delete removes a task and its tag associations, returning the deleted
// task. Tags themselves are never deleted.
func (r *GORMTaskRepository) Delete(id, userID string) (*models.Task, error) {
	task, err := r.GetByID(id, userID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Select(clause.Associations).Delete(task).Error; err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

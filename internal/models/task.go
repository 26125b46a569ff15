package models

import "time"

// Task status values.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// Task priority values.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Task represents a single task owned by a user.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string    `json:"title" gorm:"type:varchar(100)" validate:"required,min=3,max=100"`
	Description string    `json:"description" gorm:"type:varchar(500)" validate:"required,min=10,max=500"`
	DueDate     time.Time `json:"dueDate"`
	Status      string    `json:"status" gorm:"type:varchar(20);index" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    string    `json:"priority" gorm:"type:varchar(10)" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	UserID      string    `json:"userId" gorm:"type:varchar(36);index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []Tag     `json:"tags" gorm:"many2many:task_tags"`
}

// ValidStatus reports whether s is one of the task status values.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is one of the task priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

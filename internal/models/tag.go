package models

// Tag is a label shared across users and tasks. Tags are created on first
// use and never deleted; names are globally unique and case-sensitive.
type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
}

package models

import (
	"time"
)

// Todo is the single persisted entity. IDs are assigned by the database
// and never reused; Title is immutable after creation.
type Todo struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Completed bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Todo) TableName() string {
	return "todos"
}

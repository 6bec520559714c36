package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"todoify/backend/internal/models"

	"gorm.io/gorm"
)

const maxTitleLength = 255

var (
	ErrEmptyTitle   = errors.New("title is required")
	ErrTitleTooLong = errors.New("title must be 255 characters or fewer")
)

type TodoService interface {
	ListTodos(db *gorm.DB) ([]models.Todo, error)
	CreateTodo(db *gorm.DB, title string) (models.Todo, error)
	ToggleTodo(db *gorm.DB, id uint) (models.Todo, error)
	DeleteTodo(db *gorm.DB, id uint) error
}

type TodoServiceImpl struct{}

func NewTodoService() *TodoServiceImpl {
	return &TodoServiceImpl{}
}

// ValidateTitle trims surrounding whitespace and enforces the 1-255
// character bound. It returns the normalized title.
func ValidateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func (s *TodoServiceImpl) ListTodos(db *gorm.DB) ([]models.Todo, error) {
	todos := make([]models.Todo, 0)
	result := db.Order("created_at DESC, id DESC").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (s *TodoServiceImpl) CreateTodo(db *gorm.DB, title string) (models.Todo, error) {
	title, err := ValidateTitle(title)
	if err != nil {
		return models.Todo{}, err
	}

	now := time.Now()
	todo := models.Todo{
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.Create(&todo).Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// ToggleTodo flips completed in a single UPDATE so concurrent toggles
// on the same row cannot lose an update: the negation is evaluated by
// the storage engine, never read back and recomputed here.
func (s *TodoServiceImpl) ToggleTodo(db *gorm.DB, id uint) (models.Todo, error) {
	result := db.Model(&models.Todo{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"completed":  gorm.Expr("NOT completed"),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return models.Todo{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Todo{}, gorm.ErrRecordNotFound
	}

	var todo models.Todo
	if err := db.First(&todo, id).Error; err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *TodoServiceImpl) DeleteTodo(db *gorm.DB, id uint) error {
	result := db.Delete(&models.Todo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package services

import (
	"errors"
	"fmt"
	"time"

	"todoify/backend/internal/cache"
	"todoify/backend/internal/models"

	"gorm.io/gorm"
)

const listCacheKey = "todos:all"

// CachedTodoService decorates a TodoService with a read-through cache.
// Every mutation invalidates the list entry, so a cached list can never
// outlive a write. The wrapped service carries the semantics; a cache
// failure degrades to a direct read, never to an error.
type CachedTodoService struct {
	todoService TodoService
	cache       cache.Cache
	listTTL     time.Duration
	entryTTL    time.Duration
}

func NewCachedTodoService(todoService TodoService, cacheInstance cache.Cache, listTTL, entryTTL time.Duration) *CachedTodoService {
	return &CachedTodoService{
		todoService: todoService,
		cache:       cacheInstance,
		listTTL:     listTTL,
		entryTTL:    entryTTL,
	}
}

func todoCacheKey(id uint) string {
	return fmt.Sprintf("todo:%d", id)
}

func (s *CachedTodoService) ListTodos(db *gorm.DB) ([]models.Todo, error) {
	var cached []models.Todo
	if err := s.cache.Get(listCacheKey, &cached); err == nil {
		return cached, nil
	}

	todos, err := s.todoService.ListTodos(db)
	if err != nil {
		return nil, err
	}

	s.cache.Set(listCacheKey, todos, s.listTTL)
	return todos, nil
}

func (s *CachedTodoService) CreateTodo(db *gorm.DB, title string) (models.Todo, error) {
	todo, err := s.todoService.CreateTodo(db, title)
	if err != nil {
		return todo, err
	}

	s.cache.Set(todoCacheKey(todo.ID), todo, s.entryTTL)
	s.cache.Delete(listCacheKey)
	return todo, nil
}

func (s *CachedTodoService) ToggleTodo(db *gorm.DB, id uint) (models.Todo, error) {
	todo, err := s.todoService.ToggleTodo(db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.cache.Delete(todoCacheKey(id))
		}
		return todo, err
	}

	s.cache.Set(todoCacheKey(id), todo, s.entryTTL)
	s.cache.Delete(listCacheKey)
	return todo, nil
}

func (s *CachedTodoService) DeleteTodo(db *gorm.DB, id uint) error {
	err := s.todoService.DeleteTodo(db, id)
	if err != nil {
		return err
	}

	s.cache.Delete(todoCacheKey(id))
	s.cache.Delete(listCacheKey)
	return nil
}

func (s *CachedTodoService) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

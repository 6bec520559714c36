package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"todoify/backend/internal/middleware"
	"todoify/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TodoHandler struct {
	db          *gorm.DB
	todoService services.TodoService
}

func NewTodoHandler(db *gorm.DB, todoService services.TodoService) *TodoHandler {
	return &TodoHandler{db: db, todoService: todoService}
}

func (h *TodoHandler) ListTodos(c *gin.Context) {
	todos, err := h.todoService.ListTodos(h.db)
	if err != nil {
		h.handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var input struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	todo, err := h.todoService.CreateTodo(h.db, input.Title)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) || errors.Is(err, services.ErrTitleTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) ToggleTodo(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	todo, err := h.todoService.ToggleTodo(h.db, id)
	if err != nil {
		h.handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	id, ok := parseTodoID(c)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(h.db, id); err != nil {
		h.handleTodoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo deleted"})
}

// parseTodoID reads the :id path parameter. A non-numeric value can
// never match a row, so it is reported as not found rather than as a
// validation failure.
func parseTodoID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return 0, false
	}
	return uint(id), true
}

func (h *TodoHandler) handleTodoError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		return
	}

	log.Printf("storage error [%s] %s %s: %v",
		middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process todo request"})
}

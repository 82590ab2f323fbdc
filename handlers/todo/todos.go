package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/utils/response"
	"github.com/sahilchouksey/todo-api/utils/validation"
)

const (
	msgMissingTask  = "Missing task data"
	msgNoUpdateData = "No update data provided"
	msgNotFound     = "Todo not found"
	msgDeleted      = "Todo deleted successfully"

	// 500 categories, followed by the driver message
	fetchFailed  = "Could not fetch from database"
	writeFailed  = "Could not write to database"
	updateFailed = "Could not update database"
	deleteFailed = "Could not delete from database"
)

var errEmptyBody = errors.New("empty request body")

// TodoHandler handles todo-related requests
type TodoHandler struct {
	store     database.Storage
	validator *validation.Validator
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(store database.Storage) *TodoHandler {
	return &TodoHandler{
		store:     store,
		validator: validation.NewValidator(),
	}
}

// CreateTodoRequest represents the request body for creating a todo.
// Pointers tell an absent field apart from a zero value.
type CreateTodoRequest struct {
	Task      *string `json:"task" validate:"required"`
	Completed *bool   `json:"completed"`
}

func (r *CreateTodoRequest) fields() []bodyField {
	return []bodyField{{"task", &r.Task}, {"completed", &r.Completed}}
}

// UpdateTodoRequest represents the request body for updating a todo
type UpdateTodoRequest struct {
	Task      *string `json:"task" validate:"required_without=Completed"`
	Completed *bool   `json:"completed" validate:"required_without=Task"`
}

func (r *UpdateTodoRequest) fields() []bodyField {
	return []bodyField{{"task", &r.Task}, {"completed", &r.Completed}}
}

// bodyField binds an exact JSON key to its destination
type bodyField struct {
	key string
	dst interface{}
}

// ListTodos handles GET /todos
func (h *TodoHandler) ListTodos(c *fiber.Ctx) error {
	sess, err := h.store.Begin(c.UserContext())
	if err != nil {
		return storageError(c, fetchFailed, err)
	}
	defer sess.Rollback()

	todos, err := sess.GetTodos()
	if err != nil {
		return storageError(c, fetchFailed, err)
	}

	return response.Success(c, todos)
}

// CreateTodo handles POST /todos
func (h *TodoHandler) CreateTodo(c *fiber.Ctx) error {
	var req CreateTodoRequest
	if err := decodeBody(c, req.fields()); err != nil {
		if errors.Is(err, errEmptyBody) {
			return response.BadRequest(c, msgMissingTask)
		}
		return response.BadRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		log.Infof("[%s] create rejected, missing fields: %v", requestID(c), validation.FailedFields(err))
		return response.BadRequest(c, msgMissingTask)
	}

	completed := req.Completed != nil && *req.Completed

	sess, err := h.store.Begin(c.UserContext())
	if err != nil {
		return storageError(c, writeFailed, err)
	}
	defer sess.Rollback()

	todo, err := sess.AddTodo(*req.Task, completed)
	if err != nil {
		return abort(c, sess, writeFailed, err)
	}
	if err := sess.Commit(); err != nil {
		return abort(c, sess, writeFailed, err)
	}

	return response.Created(c, todo)
}

// GetTodo handles GET /todos/:id
func (h *TodoHandler) GetTodo(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, msgNotFound)
	}

	sess, err := h.store.Begin(c.UserContext())
	if err != nil {
		return storageError(c, fetchFailed, err)
	}
	defer sess.Rollback()

	todo, err := sess.GetTodo(id)
	if err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return response.NotFound(c, msgNotFound)
		}
		return storageError(c, fetchFailed, err)
	}

	return response.Success(c, todo)
}

// UpdateTodo handles PUT /todos/:id. Only fields present in the body change.
func (h *TodoHandler) UpdateTodo(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, msgNotFound)
	}

	sess, err := h.store.Begin(c.UserContext())
	if err != nil {
		return storageError(c, fetchFailed, err)
	}
	defer sess.Rollback()

	// Check if todo exists
	todo, err := sess.GetTodo(id)
	if err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return response.NotFound(c, msgNotFound)
		}
		return storageError(c, fetchFailed, err)
	}

	var req UpdateTodoRequest
	if err := decodeBody(c, req.fields()); err != nil {
		if errors.Is(err, errEmptyBody) {
			return response.BadRequest(c, msgNoUpdateData)
		}
		return response.BadRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		log.Infof("[%s] update rejected, missing fields: %v", requestID(c), validation.FailedFields(err))
		return response.BadRequest(c, msgNoUpdateData)
	}

	// Update fields if provided
	if req.Task != nil {
		todo.Task = *req.Task
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if err := sess.UpdateTodo(todo); err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			_ = sess.Rollback()
			return response.NotFound(c, msgNotFound)
		}
		return abort(c, sess, updateFailed, err)
	}
	if err := sess.Commit(); err != nil {
		return abort(c, sess, updateFailed, err)
	}

	return response.Success(c, todo)
}

// DeleteTodo handles DELETE /todos/:id
func (h *TodoHandler) DeleteTodo(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.NotFound(c, msgNotFound)
	}

	sess, err := h.store.Begin(c.UserContext())
	if err != nil {
		return storageError(c, fetchFailed, err)
	}
	defer sess.Rollback()

	todo, err := sess.GetTodo(id)
	if err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			return response.NotFound(c, msgNotFound)
		}
		return storageError(c, fetchFailed, err)
	}

	if err := sess.DeleteTodo(todo); err != nil {
		if errors.Is(err, database.ErrTodoNotFound) {
			_ = sess.Rollback()
			return response.NotFound(c, msgNotFound)
		}
		return abort(c, sess, deleteFailed, err)
	}
	if err := sess.Commit(); err != nil {
		return abort(c, sess, deleteFailed, err)
	}

	return response.Message(c, msgDeleted)
}

// parseID accepts positive integer ids only; anything else cannot name a row
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON object whatever the Content-Type header says.
// Keys must match exactly; absent keys leave their destination untouched.
func decodeBody(c *fiber.Ctx, fields []bodyField) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return errEmptyBody
	}

	decode := c.App().Config().JSONDecoder

	var raw map[string]json.RawMessage
	if err := decode(body, &raw); err != nil {
		return err
	}

	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := decode(value, f.dst); err != nil {
			return fmt.Errorf("field %q: %w", f.key, err)
		}
	}
	return nil
}

// abort rolls the session back before answering with a storage error
func abort(c *fiber.Ctx, sess database.Session, category string, err error) error {
	if rbErr := sess.Rollback(); rbErr != nil {
		log.Errorf("[%s] rollback failed: %v", requestID(c), rbErr)
	}
	return storageError(c, category, err)
}

// storageError logs the failure and exposes the driver message to the client
func storageError(c *fiber.Ctx, category string, err error) error {
	log.Errorf("[%s] %s %s: %s: %v", requestID(c), c.Method(), c.Path(), category, err)
	return response.InternalServerError(c, category, err)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return "-"
}

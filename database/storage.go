package database

import (
	"context"
	"errors"

	"github.com/sahilchouksey/todo-api/model"
)

// ErrTodoNotFound is returned by a Session when no row matches the requested id.
var ErrTodoNotFound = errors.New("todo not found")

// Storage defines the interface that all database implementations must satisfy
type Storage interface {
	// Lifecycle methods
	Init() error
	Close() error
	HealthCheck() error

	// Begin opens a session scoped to a single request. The caller must end it
	// with Commit or Rollback.
	Begin(ctx context.Context) (Session, error)
}

// Session is a unit of work against the todo table. Changes become durable on
// Commit; Rollback discards them and is a no-op once the session has ended.
type Session interface {
	GetTodos() ([]model.Todo, error)
	GetTodo(id int64) (*model.Todo, error)
	AddTodo(task string, completed bool) (*model.Todo, error)
	UpdateTodo(todo *model.Todo) error
	DeleteTodo(todo *model.Todo) error

	Commit() error
	Rollback() error
}

package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sahilchouksey/todo-api/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/sahilchouksey/todo-api/database")

// gormSession wraps one gorm transaction. Errors from the driver are returned
// unwrapped so handlers can report them as they are.
type gormSession struct {
	ctx     context.Context
	tx      *gorm.DB
	dialect Dialect
	done    bool
}

func (s *gormSession) start(name string, attrs ...attribute.KeyValue) (*gorm.DB, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", string(s.dialect)))
	ctx, span := tracer.Start(s.ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return s.tx.WithContext(ctx), span
}

func finish(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrTodoNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *gormSession) GetTodos() (todos []model.Todo, err error) {
	db, span := s.start("todo.list")
	defer func() { finish(span, err) }()

	todos = []model.Todo{}
	if err = db.Find(&todos).Error; err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("todo.count", len(todos)))
	return todos, nil
}

func (s *gormSession) GetTodo(id int64) (todo *model.Todo, err error) {
	db, span := s.start("todo.get", attribute.Int64("todo.id", id))
	defer func() { finish(span, err) }()

	todo = &model.Todo{}
	if err = db.Take(todo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *gormSession) AddTodo(task string, completed bool) (todo *model.Todo, err error) {
	db, span := s.start("todo.insert")
	defer func() { finish(span, err) }()

	todo = &model.Todo{Task: task, Completed: completed}
	if err = db.Create(todo).Error; err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("todo.id", todo.ID))
	return todo, nil
}

// UpdateTodo writes task and completed, zero values included
func (s *gormSession) UpdateTodo(todo *model.Todo) (err error) {
	db, span := s.start("todo.update", attribute.Int64("todo.id", todo.ID))
	defer func() { finish(span, err) }()

	result := db.Model(todo).Select("task", "completed").Updates(todo)
	if err = result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		err = ErrTodoNotFound
	}
	return err
}

func (s *gormSession) DeleteTodo(todo *model.Todo) (err error) {
	db, span := s.start("todo.delete", attribute.Int64("todo.id", todo.ID))
	defer func() { finish(span, err) }()

	result := db.Delete(todo)
	if err = result.Error; err != nil {
		return err
	}
	if result.RowsAffected == 0 {
		err = ErrTodoNotFound
	}
	return err
}

func (s *gormSession) Commit() (err error) {
	_, span := s.start("todo.commit")
	defer func() { finish(span, err) }()

	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	return s.tx.Commit().Error
}

func (s *gormSession) Rollback() error {
	if s.done {
		return nil
	}
	s.done = true

	err := s.tx.Rollback().Error
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

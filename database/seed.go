package database

import (
	"context"
)

// DefaultSeedTasks are inserted by cmd/seed when no tasks are given
var DefaultSeedTasks = []string{
	"Read the API docs",
	"Create your first todo",
	"Mark a todo as completed",
}

// SeedTodos inserts every task not already stored, in a single session.
// It returns how many rows were added.
func SeedTodos(ctx context.Context, store Storage, tasks []string) (int, error) {
	sess, err := store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer sess.Rollback()

	existing, err := sess.GetTodos()
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, todo := range existing {
		seen[todo.Task] = true
	}

	added := 0
	for _, task := range tasks {
		if seen[task] {
			continue
		}
		if _, err := sess.AddTodo(task, false); err != nil {
			return 0, err
		}
		seen[task] = true
		added++
	}

	if err := sess.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

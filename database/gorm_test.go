package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sahilchouksey/todo-api/config"
	"github.com/sahilchouksey/todo-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func openSQLiteStore(t *testing.T) *GORMStore {
	t.Helper()

	url := "sqlite:///" + filepath.Join(t.TempDir(), "todo.db")
	store, err := StartGORM(&config.EnvironmentVariable{GO_ENV: "test", DATABASE_URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Init())
	return store
}

func TestGORMStoreSQLite(t *testing.T) {
	runStoreContract(t, openSQLiteStore(t))
}

// TestGORMStorePostgres runs the same contract against a real PostgreSQL server.
// Set TEST_DATABASE_URL to a disposable database to enable it.
func TestGORMStorePostgres(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Skipping PostgreSQL test. Set TEST_DATABASE_URL to run")
	}

	store, err := StartGORM(&config.EnvironmentVariable{GO_ENV: "test", DATABASE_URL: config.NormalizeDatabaseURL(url)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init())
	require.NoError(t, store.db.Exec("DELETE FROM todo").Error)

	runStoreContract(t, store)
}

func runStoreContract(t *testing.T, store Storage) {
	ctx := context.Background()

	begin := func(t *testing.T) Session {
		t.Helper()
		sess, err := store.Begin(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { _ = sess.Rollback() })
		return sess
	}

	t.Run("empty list is not nil", func(t *testing.T) {
		todos, err := begin(t).GetTodos()
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	var created *model.Todo
	t.Run("insert assigns id", func(t *testing.T) {
		sess := begin(t)
		todo, err := sess.AddTodo("buy milk", false)
		require.NoError(t, err)
		require.NoError(t, sess.Commit())

		assert.Positive(t, todo.ID)
		assert.Equal(t, "buy milk", todo.Task)
		assert.False(t, todo.Completed)
		created = todo
	})
	require.NotNil(t, created)

	t.Run("get by id", func(t *testing.T) {
		todo, err := begin(t).GetTodo(created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *todo)
	})

	t.Run("missing id is ErrTodoNotFound", func(t *testing.T) {
		_, err := begin(t).GetTodo(created.ID + 1000)
		assert.True(t, errors.Is(err, ErrTodoNotFound))
	})

	t.Run("update persists zero values", func(t *testing.T) {
		sess := begin(t)
		todo, err := sess.GetTodo(created.ID)
		require.NoError(t, err)

		todo.Task = ""
		todo.Completed = true
		require.NoError(t, sess.UpdateTodo(todo))
		require.NoError(t, sess.Commit())

		reloaded, err := begin(t).GetTodo(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "", reloaded.Task)
		assert.True(t, reloaded.Completed)
	})

	t.Run("rollback discards changes", func(t *testing.T) {
		sess := begin(t)
		_, err := sess.AddTodo("never stored", true)
		require.NoError(t, err)
		require.NoError(t, sess.Rollback())

		todos, err := begin(t).GetTodos()
		require.NoError(t, err)
		assert.Len(t, todos, 1)
	})

	t.Run("rollback after commit is a no-op", func(t *testing.T) {
		sess := begin(t)
		require.NoError(t, sess.Commit())
		assert.NoError(t, sess.Rollback())
	})

	t.Run("delete removes the row", func(t *testing.T) {
		sess := begin(t)
		todo, err := sess.GetTodo(created.ID)
		require.NoError(t, err)
		require.NoError(t, sess.DeleteTodo(todo))
		require.NoError(t, sess.Commit())

		check := begin(t)
		_, err = check.GetTodo(created.ID)
		assert.ErrorIs(t, err, ErrTodoNotFound)

		// a second delete of the same row finds nothing
		assert.ErrorIs(t, check.DeleteTodo(todo), ErrTodoNotFound)
	})

	t.Run("list returns every row", func(t *testing.T) {
		sess := begin(t)
		for _, task := range []string{"a", "b", "c"} {
			_, err := sess.AddTodo(task, false)
			require.NoError(t, err)
		}
		require.NoError(t, sess.Commit())

		todos, err := begin(t).GetTodos()
		require.NoError(t, err)
		assert.Len(t, todos, 3)
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, store.HealthCheck())
	})
}

func TestInitIsIdempotent(t *testing.T) {
	store := openSQLiteStore(t)
	assert.NoError(t, store.Init())
}

func TestGormLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"production":  logger.Error,
		"test":        logger.Silent,
		"development": logger.Info,
		"":            logger.Info,
	}
	for goEnv, want := range cases {
		assert.Equal(t, want, gormLogLevel(&config.EnvironmentVariable{GO_ENV: goEnv}), "GO_ENV=%q", goEnv)
	}
}

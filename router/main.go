package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/handlers"
	todo_handlers "github.com/sahilchouksey/todo-api/handlers/todo"
	"github.com/sahilchouksey/todo-api/utils"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	todoHandler := todo_handlers.NewTodoHandler(store)

	app.Get("/todos", todoHandler.ListTodos)
	app.Post("/todos", todoHandler.CreateTodo)
	app.Get("/todos/:id", todoHandler.GetTodo)
	app.Put("/todos/:id", todoHandler.UpdateTodo)
	app.Delete("/todos/:id", todoHandler.DeleteTodo)
}

package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/utils/response"
)

// MakeHTTPHandleFunc binds store to a handler; a returned error becomes a 500 JSON body
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return response.Error(c, fiber.StatusInternalServerError, err.Error())
		}
		return nil
	}
}

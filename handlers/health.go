package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/todo-api/database"
	"github.com/sahilchouksey/todo-api/utils/response"
)

func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database unavailable: "+err.Error())
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

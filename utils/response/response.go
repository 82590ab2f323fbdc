package response

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the envelope for every error answer
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody carries a confirmation message
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes data as the response body with the given status
func JSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// Success returns a 200 OK response
func Success(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusOK, data)
}

// Created returns a 201 Created response
func Created(c *fiber.Ctx, data interface{}) error {
	return JSON(c, fiber.StatusCreated, data)
}

// Message returns a 200 OK response with a message body
func Message(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusOK, MessageBody{Message: message})
}

// Error returns an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return JSON(c, statusCode, ErrorBody{Error: message})
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// NotFound returns a 404 Not Found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusTooManyRequests, message)
}

// InternalServerError returns a 500 response of the form "<category>: <err>"
func InternalServerError(c *fiber.Ctx, category string, err error) error {
	message := category
	if err != nil {
		message = category + ": " + err.Error()
	}
	return Error(c, fiber.StatusInternalServerError, message)
}

// ServiceUnavailable returns a 503 Service Unavailable response
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, message)
}

package http

import "github.com/gofiber/fiber/v2"

// OK writes a 200 with the given payload.
func OK(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusOK).JSON(payload)
}

// Created writes a 201 with the given payload.
func Created(c *fiber.Ctx, payload any) error {
	return c.Status(fiber.StatusCreated).JSON(payload)
}

// NoContent writes a bare 204.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// errorBody is the shape every error response shares, regardless of kind.
type errorBody struct {
	Code    string `json:"code,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotFound writes a 404 error body.
func NotFound(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(errorBody{Code: code, Title: title, Message: message})
}

// BadRequest writes a 400 error body.
func BadRequest(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorBody{Code: code, Title: title, Message: message})
}

// RequestTimeout writes a 408 error body.
func RequestTimeout(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(errorBody{Code: code, Title: title, Message: message})
}

// InternalServerError writes a 500 error body.
func InternalServerError(c *fiber.Ctx, code, title, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorBody{Code: code, Title: title, Message: message})
}

package http

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Ping returns HTTP 200 with the literal body "OK". Mounted at /health.
func Ping(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("OK")
}

// Version returns HTTP 200 with the running build's version.
func Version(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":     version,
			"buildNumber": os.Getenv("BUILD_NUMBER"),
			"requestDate": time.Now().UTC(),
		})
	}
}

// Welcome returns HTTP 200 with basic service info.
func Welcome(service, description string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     service,
			"description": description,
		})
	}
}

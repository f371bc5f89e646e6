package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/reecen9696/casino-rollup/common"
)

const (
	defaultAccessControlAllowOrigin  = "*"
	defaultAccessControlAllowMethods = "POST, GET, OPTIONS, PUT, DELETE"
	defaultAccessControlAllowHeaders = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization"
)

// WithCORS enables CORS for every origin, as the sequencer is meant to be
// called directly from a browser wallet with no separate API gateway.
func WithCORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: common.GetenvOrDefault("ACCESS_CONTROL_ALLOW_ORIGIN", defaultAccessControlAllowOrigin),
		AllowMethods: common.GetenvOrDefault("ACCESS_CONTROL_ALLOW_METHODS", defaultAccessControlAllowMethods),
		AllowHeaders: common.GetenvOrDefault("ACCESS_CONTROL_ALLOW_HEADERS", defaultAccessControlAllowHeaders),
	})
}

// AllowFullOptionsWithCORS mounts WithCORS and answers every OPTIONS
// preflight with 204.
func AllowFullOptionsWithCORS(app *fiber.App) {
	app.Use(WithCORS())

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
}
